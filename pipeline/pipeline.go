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

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/factmap/core"
	"github.com/poiesic/factmap/dataset"
	"github.com/poiesic/factmap/normalize"
	"github.com/poiesic/factmap/patch"
	"github.com/poiesic/factmap/regen"
)

// Mode selects the passes a run performs.
type Mode string

const (
	// ModeRun normalizes, patches, regenerates missing columns, writes every
	// output and the cluster label artifact.
	ModeRun Mode = "run"
	// ModeFix normalizes the configured columns and applies the patch rules.
	ModeFix Mode = "fix"
	// ModeFixEncoding normalizes EncodingColumns only.
	ModeFixEncoding Mode = "fix-encoding"
	// ModeEmbed computes x and y when they are missing.
	ModeEmbed Mode = "embed"
)

// Modes lists every mode.
var Modes = []Mode{ModeRun, ModeFix, ModeFixEncoding, ModeEmbed}

// ParseMode validates a mode name.
func ParseMode(name string) (Mode, error) {
	mode := Mode(name)
	if !slices.Contains(Modes, mode) {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return mode, nil
}

// EncodingColumns are the free-text columns ModeFixEncoding repairs.
var EncodingColumns = []string{core.ColArticleText, core.ColTitle, core.ColSummary}

// DerivedColumns are dropped before a forced ModeEmbed run.
var DerivedColumns = []string{core.ColX, core.ColY, core.ColCluster, core.ColTopic}

// TopTargets is the number of target values reported in a ModeRun summary.
const TopTargets = 20

// Report collects what every pass of a run did.
type Report struct {
	Mode Mode
	Rows int

	Normalized normalize.Report
	// Residue counts rows per column still holding characters the
	// normalizer removes.
	Residue map[string]int

	Rules []patch.RuleReport
	// Leaks counts rows per blacklisted term that still hold it after patching.
	Leaks map[string]int

	Regen *regen.Result

	Targets []TargetCount
	// Outputs lists the files written.
	Outputs []string
	// Labels is the cluster label artifact written, if any.
	Labels string
}

// Pipeline runs the passes of a Mode over one table.
type Pipeline struct {
	columns      []string
	rules        []patch.Rule
	regenOptions []regen.Option
	outputs      []string
	labels       string
	workers      int
	force        bool
	base         *slog.Logger
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithColumns sets the columns normalized by ModeRun and ModeFix.
// Default is normalize.DefaultColumns.
func WithColumns(columns ...string) Option {
	return func(p *Pipeline) {
		p.columns = columns
	}
}

// WithRules sets the patch rules. Default is patch.DefaultRules().
func WithRules(rules []patch.Rule) Option {
	return func(p *Pipeline) {
		p.rules = rules
	}
}

// WithRegenOptions configures the regenerator built for ModeRun and ModeEmbed.
func WithRegenOptions(opts ...regen.Option) Option {
	return func(p *Pipeline) {
		p.regenOptions = append(p.regenOptions, opts...)
	}
}

// WithOutputs sets the files every run writes.
func WithOutputs(paths ...string) Option {
	return func(p *Pipeline) {
		p.outputs = paths
	}
}

// WithLabels sets the path of the cluster label artifact. Empty disables it.
func WithLabels(path string) Option {
	return func(p *Pipeline) {
		p.labels = path
	}
}

// WithWorkers sets the normalizer pool size.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = max(n, 1)
	}
}

// WithForce makes ModeEmbed drop DerivedColumns so coordinates and
// clusters are recomputed.
func WithForce(force bool) Option {
	return func(p *Pipeline) {
		p.force = force
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger == nil {
			logger = slog.Default()
		}
		p.base = logger
	}
}

// New creates a pipeline. Rules are validated here so a bad rule fails
// before any input is read.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		columns: normalize.DefaultColumns,
		rules:   patch.DefaultRules(),
		workers: 2,
		base:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := patch.Validate(p.rules); err != nil {
		return nil, err
	}
	p.logger = p.base.With("component", "pipeline")
	return p, nil
}

// Run loads input, processes it in mode and writes every output.
// No output is written if any pass fails.
func (p *Pipeline) Run(ctx context.Context, mode Mode, input string) (*Report, error) {
	if len(p.outputs) == 0 {
		return nil, ErrNoOutputs
	}

	p.logger.Info("loading dataset", "path", input)
	t, err := dataset.Load(input)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", input, err)
	}
	p.logger.Info("loaded dataset", "rows", t.Len(), "columns", t.Columns())

	out, report, err := p.Process(ctx, mode, t)
	if err != nil {
		return nil, err
	}

	if err := dataset.WriteAll(ctx, out, p.outputs...); err != nil {
		return nil, fmt.Errorf("failed to write outputs: %w", err)
	}
	report.Outputs = p.outputs
	p.logger.Info("saved dataset", "rows", out.Len(), "outputs", p.outputs)

	if p.labels != "" && report.Regen != nil && report.Regen.Clusters != nil {
		if err := dataset.WriteClusterLabels(ctx, p.labels, report.Regen.Clusters); err != nil {
			return nil, fmt.Errorf("failed to write cluster labels: %w", err)
		}
		report.Labels = p.labels
		p.logger.Info("saved cluster labels", "path", p.labels, "clusters", len(report.Regen.Clusters))
	}

	return report, nil
}

// Process runs the passes of mode over t and returns the output table in
// output column order. t is not modified.
func (p *Pipeline) Process(ctx context.Context, mode Mode, t *core.Table) (*core.Table, *Report, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, nil, err
	}
	report := &Report{Mode: mode, Rows: t.Len()}
	out := t

	switch mode {
	case ModeRun:
		var err error
		if out, err = p.normalize(ctx, out, p.columns, report); err != nil {
			return nil, nil, err
		}
		if out, err = p.patch(out, report); err != nil {
			return nil, nil, err
		}
		if out, err = p.regenerate(ctx, out, report, regen.AllGroups...); err != nil {
			return nil, nil, err
		}
		if report.Regen.Fresh(regen.GroupTargets) {
			// Extracted targets have not been patched yet.
			if out, err = p.patch(out, report); err != nil {
				return nil, nil, err
			}
		}
		report.Targets = TargetDistribution(out, TopTargets)
		for _, tc := range report.Targets {
			p.logger.Info("target distribution", "target", tc.Target, "count", tc.Count)
		}

	case ModeFix:
		var err error
		if out, err = p.normalize(ctx, out, p.columns, report); err != nil {
			return nil, nil, err
		}
		if out, err = p.patch(out, report); err != nil {
			return nil, nil, err
		}

	case ModeFixEncoding:
		var err error
		if out, err = p.normalize(ctx, out, EncodingColumns, report); err != nil {
			return nil, nil, err
		}

	case ModeEmbed:
		if p.force {
			out = out.Clone()
			out.DropColumns(DerivedColumns...)
			p.logger.Info("dropped derived columns", "columns", DerivedColumns)
		}
		var err error
		if out, err = p.regenerate(ctx, out, report, regen.GroupCoordinates); err != nil {
			return nil, nil, err
		}
	}

	return dataset.Order(out), report, nil
}

func (p *Pipeline) normalize(ctx context.Context, t *core.Table, columns []string, report *Report) (*core.Table, error) {
	out, nr, err := normalize.Columns(ctx, t, columns,
		normalize.WithPoolSize(p.workers),
		normalize.WithLogger(p.base))
	if err != nil {
		return nil, fmt.Errorf("failed to normalize: %w", err)
	}
	report.Normalized = nr

	report.Residue = normalize.Residue(out, columns)
	for column, n := range report.Residue {
		if n > 0 {
			p.logger.Warn("encoding residue remains", "column", column, "rows", n)
		}
	}
	return out, nil
}

func (p *Pipeline) patch(t *core.Table, report *Report) (*core.Table, error) {
	out, reports, err := patch.Apply(t, p.rules, patch.WithLogger(p.base))
	if err != nil {
		return nil, fmt.Errorf("failed to patch: %w", err)
	}
	report.Rules = append(report.Rules, reports...)

	report.Leaks = patch.Leaks(out, patch.Blacklist(p.rules))
	for term, n := range report.Leaks {
		p.logger.Warn("blacklisted target remains", "term", term, "rows", n)
	}
	return out, nil
}

func (p *Pipeline) regenerate(ctx context.Context, t *core.Table, report *Report, groups ...regen.Group) (*core.Table, error) {
	opts := append(slices.Clone(p.regenOptions),
		regen.WithLogger(p.base),
		regen.WithGroups(groups...))
	out, result, err := regen.New(opts...).Regenerate(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate columns: %w", err)
	}
	report.Regen = result
	return out, nil
}
