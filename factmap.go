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

// Package factmap prepares the news-correction dataset behind the semantic
// map: it repairs text encoding, patches target metadata, derives dates,
// projection coordinates and topic clusters, and writes the result.
//
// A Workspace wires the pipeline to its collaborators from a config.Config:
//
//	ws, err := factmap.Open(cfg)
//	if err != nil { ... }
//	defer ws.Close()
//	p, err := ws.NewPipeline()
//	report, err := p.Run(ctx, pipeline.ModeRun, cfg.Input)
package factmap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/factmap/ai"
	"github.com/poiesic/factmap/ai/openai"
	"github.com/poiesic/factmap/config"
	"github.com/poiesic/factmap/embedding"
	"github.com/poiesic/factmap/pipeline"
	"github.com/poiesic/factmap/projection"
	"github.com/poiesic/factmap/regen"
	"github.com/poiesic/factmap/storage"
	"github.com/poiesic/factmap/storage/badger"
)

// Workspace owns the embedding cache and AI provider of a run.
type Workspace struct {
	config   config.Config
	backend  *badger.Backend
	cache    storage.EmbeddingCache
	provider ai.AIProvider
	progress io.Writer
	logger   *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	provider ai.AIProvider
	progress io.Writer
	logger   *slog.Logger
}

// WithProvider uses provider instead of the OpenAI-compatible services
// described by the config. The workspace takes ownership of it.
func WithProvider(provider ai.AIProvider) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.provider = provider
	}
}

// WithProgress writes embedding progress to w.
func WithProgress(w io.Writer) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.progress = w
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.logger = logger
	}
}

// Open validates cfg, opens the embedding cache when cfg.Cache.Dir is set
// and creates the AI provider.
func Open(cfg config.Config, opts ...WorkspaceOption) (*Workspace, error) {
	options := &workspaceOptions{progress: io.Discard, logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ws := &Workspace{
		config:   cfg,
		progress: options.progress,
		logger:   options.logger,
	}

	if cfg.Cache.Dir != "" {
		backend, err := badger.OpenBackend(cfg.Cache.Dir, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open embedding cache: %w", err)
		}
		cache, err := badger.NewEmbeddingCache(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
		ws.backend = backend
		ws.cache = cache
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(cfg.AIConfig())
		if err != nil {
			ws.closeCache()
			return nil, fmt.Errorf("failed to create AI provider: %w", err)
		}
	}
	ws.provider = provider

	return ws, nil
}

// Close releases the provider and the embedding cache.
func (ws *Workspace) Close() error {
	var errs []error
	if err := ws.provider.Close(); err != nil {
		ws.logger.Error("error closing AI provider", "err", err)
		errs = append(errs, err)
	}
	if err := ws.closeCache(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (ws *Workspace) closeCache() error {
	if ws.backend == nil {
		return nil
	}
	if err := ws.cache.Close(); err != nil {
		ws.logger.Error("error closing embedding cache", "err", err)
		return err
	}
	if err := ws.backend.Close(); err != nil {
		ws.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Cache returns the embedding cache, or nil when caching is disabled.
func (ws *Workspace) Cache() storage.EmbeddingCache {
	return ws.cache
}

// Provider returns the AI provider.
func (ws *Workspace) Provider() ai.AIProvider {
	return ws.provider
}

// NewPipeline creates a pipeline configured from the workspace settings.
// opts are applied after the configured ones and may override them.
func (ws *Workspace) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	cfg := ws.config

	generatorOpts := []embedding.Option{
		embedding.WithProgress(ws.progress),
		embedding.WithLogger(ws.logger),
	}
	if ws.cache != nil {
		generatorOpts = append(generatorOpts, embedding.WithCache(ws.cache, cfg.Embedding.Model))
	}
	generator, err := embedding.NewGenerator(ws.provider.Embedder(), &embedding.Config{
		BatchSize:      cfg.Embedding.BatchSize,
		Workers:        cfg.Workers,
		ReportInterval: cfg.Embedding.BatchSize,
		MaxRetries:     cfg.Embedding.MaxRetries,
		RetryDelay:     cfg.Embedding.RetryDelay,
	}, generatorOpts...)
	if err != nil {
		return nil, err
	}

	projector, err := projection.New(cfg.Projection.Method, cfg.ProjectionOptions(ws.logger))
	if err != nil {
		return nil, err
	}

	regenOpts := []regen.Option{
		regen.WithGenerator(generator),
		regen.WithProjector(projector),
		regen.WithKMeans(cfg.KMeans()),
		regen.WithWorkers(cfg.Workers),
	}
	if cfg.Extraction.Enabled {
		regenOpts = append(regenOpts, regen.WithExtractor(ws.provider.EntityExtractor()))
	}

	all := []pipeline.Option{
		pipeline.WithColumns(cfg.TextColumns...),
		pipeline.WithRules(cfg.Rules),
		pipeline.WithOutputs(cfg.Outputs...),
		pipeline.WithLabels(cfg.Labels),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithLogger(ws.logger),
		pipeline.WithRegenOptions(regenOpts...),
	}
	return pipeline.New(append(all, opts...)...)
}
