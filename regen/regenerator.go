// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package regen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/factmap/ai"
	"github.com/poiesic/factmap/cluster"
	"github.com/poiesic/factmap/core"
	"github.com/poiesic/factmap/embedding"
	"github.com/poiesic/factmap/projection"
)

// Group names a set of columns that is computed together.
type Group string

const (
	GroupDates       Group = "dates"
	GroupYear        Group = "year"
	GroupCoordinates Group = "coordinates"
	GroupClusters    Group = "clusters"
	GroupTargets     Group = "targets"
)

// AllGroups lists every group in the order they are computed.
var AllGroups = []Group{GroupDates, GroupYear, GroupCoordinates, GroupClusters, GroupTargets}

// Result describes what a run computed.
type Result struct {
	// Regenerated lists the groups computed this run, in order.
	Regenerated []Group
	// Preserved lists the groups whose columns were left as loaded.
	Preserved []Group
	// UnparsedDates counts date cells that could not be parsed and were
	// replaced with the missing marker.
	UnparsedDates int
	// Coordinates summarizes the fresh projection. Nil unless coordinates
	// were regenerated.
	Coordinates *projection.Stats
	// Clusters holds one summary per cluster, in first-appearance order.
	// Nil unless clusters were regenerated.
	Clusters []cluster.Summary
	// DroppedColumns lists derived columns removed because their inputs
	// were recomputed while their own group was disabled.
	DroppedColumns []string
}

// Fresh reports whether group was computed this run.
func (r *Result) Fresh(group Group) bool {
	return slices.Contains(r.Regenerated, group)
}

// Regenerator computes missing derived columns.
type Regenerator struct {
	generator *embedding.Generator
	projector projection.Projector
	kmeans    cluster.KMeans
	extractor ai.EntityExtractor
	groups    map[Group]bool
	workers   int
	logger    *slog.Logger
}

// Option configures a Regenerator.
type Option func(*Regenerator)

// WithGenerator sets the embedding generator used for coordinates.
func WithGenerator(g *embedding.Generator) Option {
	return func(r *Regenerator) {
		r.generator = g
	}
}

// WithProjector sets the projector. Default is PCA with DefaultOptions.
func WithProjector(p projection.Projector) Option {
	return func(r *Regenerator) {
		if p != nil {
			r.projector = p
		}
	}
}

// WithKMeans sets the clustering parameters.
// Default is cluster.NewKMeans(cluster.DefaultK, cluster.DefaultSeed).
func WithKMeans(km cluster.KMeans) Option {
	return func(r *Regenerator) {
		r.kmeans = km
	}
}

// WithExtractor sets the entity extractor used when the target column is
// absent. Without one the targets group is skipped.
func WithExtractor(e ai.EntityExtractor) Option {
	return func(r *Regenerator) {
		r.extractor = e
	}
}

// WithGroups restricts the run to the named groups.
func WithGroups(groups ...Group) Option {
	return func(r *Regenerator) {
		r.groups = make(map[Group]bool, len(groups))
		for _, g := range groups {
			r.groups[g] = true
		}
	}
}

// WithWorkers sets the number of concurrent extraction calls.
// Default is 2, with a minimum of 1.
func WithWorkers(n int) Option {
	return func(r *Regenerator) {
		r.workers = max(n, 1)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Regenerator) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// New creates a Regenerator with every group enabled.
func New(opts ...Option) *Regenerator {
	r := &Regenerator{
		kmeans:  cluster.NewKMeans(cluster.DefaultK, cluster.DefaultSeed),
		workers: 2,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.groups == nil {
		WithGroups(AllGroups...)(r)
	}
	if r.projector == nil {
		r.projector, _ = projection.New(projection.NamePCA, projection.DefaultOptions())
	}
	r.logger = r.logger.With("component", "regenerator")
	return r
}

// Regenerate returns a copy of t with every enabled group that is missing
// computed in full. Present groups are left byte-identical.
func (r *Regenerator) Regenerate(ctx context.Context, t *core.Table) (*core.Table, *Result, error) {
	out := t.Clone()
	result := &Result{}

	mark := func(group Group, fresh bool) {
		if fresh {
			result.Regenerated = append(result.Regenerated, group)
		} else {
			result.Preserved = append(result.Preserved, group)
		}
	}

	dates, unparsed, err := r.dates(out)
	if err != nil {
		return nil, nil, err
	}
	if r.groups[GroupDates] && out.HasColumn(core.ColDate) {
		if err := out.SetColumn(core.ColDate, formatDates(dates)); err != nil {
			return nil, nil, err
		}
		result.UnparsedDates = unparsed
		mark(GroupDates, true)
		if unparsed > 0 {
			r.logger.Warn("dates could not be parsed", "count", unparsed)
		}
	}

	if r.groups[GroupYear] {
		fresh := out.IsColumnBlank(core.ColYear) && out.HasColumn(core.ColDate)
		if fresh {
			r.logger.Info("generating year column")
			if err := out.SetColumn(core.ColYear, years(dates)); err != nil {
				return nil, nil, err
			}
		} else {
			r.logger.Info("year column exists, preserving")
		}
		mark(GroupYear, fresh)
	}

	coordsFresh := false
	if r.groups[GroupCoordinates] {
		if !out.HasColumns(core.ColX, core.ColY) {
			stats, err := r.coordinates(ctx, out)
			if err != nil {
				return nil, nil, err
			}
			result.Coordinates = &stats
			coordsFresh = true
		} else {
			r.logger.Info("coordinate columns exist, preserving")
		}
		mark(GroupCoordinates, coordsFresh)
	}

	if r.groups[GroupClusters] {
		fresh := coordsFresh || !out.HasColumns(core.ColCluster, core.ColTopic)
		if fresh {
			summaries, err := r.clusters(out)
			if err != nil {
				return nil, nil, err
			}
			result.Clusters = summaries
		} else {
			r.logger.Info("cluster and topic columns exist, preserving")
		}
		mark(GroupClusters, fresh)
	} else if coordsFresh {
		stale := []string{}
		for _, name := range []string{core.ColCluster, core.ColTopic} {
			if out.HasColumn(name) {
				stale = append(stale, name)
			}
		}
		if len(stale) > 0 {
			r.logger.Warn("dropping clusters computed from previous coordinates", "columns", stale)
			out.DropColumns(stale...)
			result.DroppedColumns = stale
		}
	}

	if r.groups[GroupTargets] {
		fresh := false
		switch {
		case out.HasColumn(core.ColTarget):
			r.logger.Info("target column exists, preserving")
		case r.extractor == nil:
			r.logger.Warn("target column missing and no extractor configured, skipping")
		default:
			if err := r.targets(ctx, out); err != nil {
				return nil, nil, err
			}
			fresh = true
		}
		mark(GroupTargets, fresh)
	}

	return out, result, nil
}

// dates parses every date cell. Unparseable cells yield the zero time.
func (r *Regenerator) dates(t *core.Table) ([]time.Time, int, error) {
	values, ok := t.Column(core.ColDate)
	if !ok {
		r.logger.Warn("date column missing, skipping dates")
		return nil, 0, nil
	}
	parsed := make([]time.Time, len(values))
	unparsed := 0
	for i, v := range values {
		d, ok := ParseDate(v)
		if !ok {
			unparsed++
			if v != "" {
				r.logger.Debug("unparseable date", "row", i, "value", v)
			}
			continue
		}
		parsed[i] = d
	}
	return parsed, unparsed, nil
}

func formatDates(dates []time.Time) []string {
	values := make([]string, len(dates))
	for i, d := range dates {
		if !d.IsZero() {
			values[i] = d.Format(ISODate)
		}
	}
	return values
}

func years(dates []time.Time) []string {
	values := make([]string, len(dates))
	for i, d := range dates {
		if !d.IsZero() {
			values[i] = strconv.Itoa(d.Year())
		}
	}
	return values
}

func (r *Regenerator) coordinates(ctx context.Context, t *core.Table) (projection.Stats, error) {
	if r.generator == nil {
		return projection.Stats{}, ErrEmbedderRequired
	}

	r.logger.Info("generating coordinates", "rows", t.Len())
	vectors, err := r.generator.Generate(ctx, embedding.RowTexts(t))
	if err != nil {
		return projection.Stats{}, fmt.Errorf("failed to embed rows: %w", err)
	}

	points, err := r.projector.Project(vectors)
	if err != nil {
		return projection.Stats{}, fmt.Errorf("failed to project embeddings: %w", err)
	}

	xs := make([]string, len(points))
	ys := make([]string, len(points))
	for i, p := range points {
		xs[i] = formatFloat(p.X)
		ys[i] = formatFloat(p.Y)
	}
	if err := t.SetColumn(core.ColX, xs); err != nil {
		return projection.Stats{}, err
	}
	if err := t.SetColumn(core.ColY, ys); err != nil {
		return projection.Stats{}, err
	}

	stats := projection.Summarize(points)
	r.logger.Info("coordinate statistics",
		"minX", stats.MinX, "maxX", stats.MaxX, "meanX", stats.MeanX,
		"minY", stats.MinY, "maxY", stats.MaxY, "meanY", stats.MeanY)
	return stats, nil
}

func (r *Regenerator) clusters(t *core.Table) ([]cluster.Summary, error) {
	if t.Len() == 0 {
		r.logger.Info("no rows to cluster")
		if err := t.SetColumn(core.ColCluster, nil); err != nil {
			return nil, err
		}
		if err := t.SetColumn(core.ColTopic, nil); err != nil {
			return nil, err
		}
		return []cluster.Summary{}, nil
	}

	points, err := Points(t)
	if err != nil {
		return nil, err
	}

	r.logger.Info("clustering", "rows", len(points), "k", r.kmeans.K, "seed", r.kmeans.Seed)
	fit, err := r.kmeans.Fit(points)
	if err != nil {
		return nil, fmt.Errorf("failed to cluster: %w", err)
	}

	articles, _ := t.Column(core.ColArticleText)
	if articles == nil {
		articles = make([]string, t.Len())
	}
	topics, err := cluster.Topics(fit.Labels, articles, len(fit.Centroids))
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(fit.Labels))
	labels := make([]string, len(fit.Labels))
	for i, c := range fit.Labels {
		ids[i] = strconv.Itoa(c)
		labels[i] = topics[c]
	}
	if err := t.SetColumn(core.ColCluster, ids); err != nil {
		return nil, err
	}
	if err := t.SetColumn(core.ColTopic, labels); err != nil {
		return nil, err
	}

	for c := range len(fit.Centroids) {
		r.logger.Debug("cluster topic", "cluster", c, "topic", topics[c])
	}
	return cluster.Summaries(points, fit.Labels, topics)
}

// targets fills a new target column from the extractor, one call per row.
func (r *Regenerator) targets(ctx context.Context, t *core.Table) error {
	r.logger.Info("extracting targets", "rows", t.Len())
	texts := embedding.RowTexts(t)
	values := make([]string, len(texts))
	errs := make([]error, len(texts))

	pool, err := ants.NewPool(r.workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			break
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			entities, err := r.extractor.ExtractEntities(ctx, text)
			if err != nil {
				errs[i] = fmt.Errorf("row %d: %w", i, err)
				return
			}
			names := make([]string, len(entities))
			for j, e := range entities {
				names[j] = e.Name
			}
			values[i] = core.JoinTarget(names)
		})
		if err != nil {
			wg.Done()
			errs[i] = err
			break
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to extract targets: %w", err)
	}
	return t.SetColumn(core.ColTarget, values)
}

// Points reads the x and y columns as points.
func Points(t *core.Table) ([]core.Point, error) {
	points := make([]core.Point, t.Len())
	for i := range points {
		x, err := t.Float(i, core.ColX)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d x: %w", ErrInvalidCoordinate, i, err)
		}
		y, err := t.Float(i, core.ColY)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d y: %w", ErrInvalidCoordinate, i, err)
		}
		points[i] = core.Point{X: x, Y: y}
	}
	return points, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
