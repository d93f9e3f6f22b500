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

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/poiesic/factmap"
	"github.com/poiesic/factmap/config"
	"github.com/poiesic/factmap/pipeline"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "factmap",
		Usage: "Prepare the corrections dataset behind the semantic map",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"FACTMAP_CONFIG"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Repair, patch and regenerate the dataset, then write every output",
				Action: modeCommand(pipeline.ModeRun),
				Flags: append(append(ioFlags(), embeddingFlags()...),
					&cli.BoolFlag{
						Name:  "extract-targets",
						Usage: "Extract a target column with the chat model when the input has none",
					},
				),
			},
			{
				Name:   "fix",
				Usage:  "Repair text encoding and apply the patch rules",
				Action: modeCommand(pipeline.ModeFix),
				Flags:  append(ioFlags(), workersFlag()),
			},
			{
				Name:   "fix-encoding",
				Usage:  "Repair text encoding of the title, summary and article_text columns",
				Action: modeCommand(pipeline.ModeFixEncoding),
				Flags:  append(ioFlags(), workersFlag()),
			},
			{
				Name:   "embed",
				Usage:  "Compute missing x and y coordinates",
				Action: modeCommand(pipeline.ModeEmbed),
				Flags: append(append(ioFlags(), embeddingFlags()...),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Drop existing x, y, cluster and topic columns first",
					},
				),
			},
		},
	}
}

func ioFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Input CSV file",
		},
		&cli.StringSliceFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output CSV file (repeatable)",
		},
		&cli.StringFlag{
			Name:  "labels",
			Usage: "Cluster label JSON file",
		},
	}
}

func workersFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "workers",
		Usage: "Number of concurrent workers",
		Value: 2,
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "Path to the BadgerDB embedding cache directory",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of texts sent to the embedder per request",
			Value: 32,
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum attempts per embedding batch",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
		workersFlag(),
		&cli.StringFlag{
			Name:  "projector",
			Usage: "Projection method (pca, tsne)",
			Value: "pca",
		},
		&cli.IntFlag{
			Name:  "clusters",
			Usage: "Number of topic clusters",
			Value: 8,
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "Random seed for projection and clustering",
			Value: 42,
		},
	}
}

// loadConfig reads the config file and applies every flag the user set.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if c.IsSet("input") {
		cfg.Input = c.String("input")
	}
	if c.IsSet("output") {
		cfg.Outputs = c.StringSlice("output")
	}
	if c.IsSet("labels") {
		cfg.Labels = c.String("labels")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("embedding-host") {
		cfg.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}
	if c.IsSet("cache-dir") {
		cfg.Cache.Dir = c.String("cache-dir")
	}
	if c.IsSet("batch-size") {
		cfg.Embedding.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("max-retries") {
		cfg.Embedding.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		cfg.Embedding.RetryDelay = c.Duration("retry-delay")
	}
	if c.IsSet("projector") {
		cfg.Projection.Method = c.String("projector")
	}
	if c.IsSet("clusters") {
		cfg.Clustering.K = c.Int("clusters")
	}
	if c.IsSet("seed") {
		cfg.Projection.Seed = c.Uint64("seed")
		cfg.Clustering.Seed = c.Uint64("seed")
	}
	if c.IsSet("extract-targets") {
		cfg.Extraction.Enabled = c.Bool("extract-targets")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	} else if cfg.LogLevel != "" {
		// Without an explicit flag the config file picks the level.
		if err := installLogger(cfg.LogLevel); err != nil {
			return config.Config{}, err
		}
	}

	return cfg, cfg.Validate()
}

func modeCommand(mode pipeline.Mode) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		ws, err := factmap.Open(cfg, factmap.WithProgress(os.Stderr))
		if err != nil {
			return err
		}
		defer ws.Close()

		p, err := ws.NewPipeline(pipeline.WithForce(c.Bool("force")))
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Input: %s\n", cfg.Input)
		if mode == pipeline.ModeRun || mode == pipeline.ModeEmbed {
			fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.Embedding.Host)
			fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.Embedding.Model)
		}
		fmt.Fprintln(os.Stderr)

		report, err := p.Run(c.Context, mode, cfg.Input)
		if err != nil {
			return fmt.Errorf("%s failed: %w", mode, err)
		}
		printReport(os.Stderr, report)
		return nil
	}
}

func printReport(w io.Writer, r *pipeline.Report) {
	fmt.Fprintf(w, "Rows: %d\n", r.Rows)
	for column, n := range r.Normalized.Changed {
		fmt.Fprintf(w, "Normalized %s: %d cells\n", column, n)
	}
	for column, n := range r.Residue {
		if n > 0 {
			fmt.Fprintf(w, "Warning: %d rows of %s still hold unrepaired characters\n", n, column)
		}
	}
	for _, rule := range r.Rules {
		if rule.Skipped {
			fmt.Fprintf(w, "Rule %s: skipped\n", rule.Name)
			continue
		}
		fmt.Fprintf(w, "Rule %s: %d matched, %d changed\n", rule.Name, rule.Matched, rule.Changed)
	}
	for term, n := range r.Leaks {
		if n > 0 {
			fmt.Fprintf(w, "Warning: %q remains in %d targets\n", term, n)
		}
	}
	if r.Regen != nil {
		for _, g := range r.Regen.Regenerated {
			fmt.Fprintf(w, "Regenerated: %s\n", g)
		}
		for _, g := range r.Regen.Preserved {
			fmt.Fprintf(w, "Preserved: %s\n", g)
		}
		if r.Regen.UnparsedDates > 0 {
			fmt.Fprintf(w, "Warning: %d dates could not be parsed\n", r.Regen.UnparsedDates)
		}
		if s := r.Regen.Coordinates; s != nil {
			fmt.Fprintf(w, "x: [%.3f, %.3f] mean %.3f\n", s.MinX, s.MaxX, s.MeanX)
			fmt.Fprintf(w, "y: [%.3f, %.3f] mean %.3f\n", s.MinY, s.MaxY, s.MeanY)
		}
		for _, s := range r.Regen.Clusters {
			fmt.Fprintf(w, "Cluster %q: %d rows\n", s.Label, s.Count)
		}
	}
	if len(r.Targets) > 0 {
		fmt.Fprintln(w, "Top targets:")
		for _, tc := range r.Targets {
			fmt.Fprintf(w, "  %5d  %s\n", tc.Count, tc.Target)
		}
	}
	for _, path := range r.Outputs {
		fmt.Fprintf(w, "Wrote %s\n", path)
	}
	if r.Labels != "" {
		fmt.Fprintf(w, "Wrote %s\n", r.Labels)
	}
}

func setupLogger(c *cli.Context) error {
	return installLogger(c.String("log-level"))
}

func installLogger(name string) error {
	level, err := config.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", name)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
