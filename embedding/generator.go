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

package embedding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/factmap/ai"
	"github.com/poiesic/factmap/storage"
)

// Config holds configuration for an embedding run.
type Config struct {
	// BatchSize is the number of texts sent to the embedder per call
	BatchSize int

	// Workers is the number of batches embedded concurrently
	Workers int

	// ReportInterval is how often to report progress (number of texts)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      32,
		Workers:        2,
		ReportInterval: 64,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Generator embeds whole columns of texts.
type Generator struct {
	embedder ai.Embedder
	config   *Config
	cache    storage.EmbeddingCache
	model    string
	progress io.Writer
	logger   *slog.Logger

	processor *BatchProcessor
}

// Option configures a Generator.
type Option func(*Generator)

// WithCache serves vectors for model from cache and stores fresh ones in it.
func WithCache(cache storage.EmbeddingCache, model string) Option {
	return func(g *Generator) {
		g.cache = cache
		g.model = model
	}
}

// WithProgress writes progress lines to w.
// Default is io.Discard.
func WithProgress(w io.Writer) Option {
	return func(g *Generator) {
		g.progress = w
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
	}
}

// NewGenerator creates a generator. A nil config uses DefaultConfig.
func NewGenerator(embedder ai.Embedder, config *Config, opts ...Option) (*Generator, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxRetries <= 0 {
		return nil, ErrInvalidMaxAttempts
	}

	g := &Generator{
		embedder: embedder,
		config:   config,
		progress: io.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("component", "embedding")

	g.processor = NewBatchProcessor(embedder, g.cache, g.model, config.MaxRetries, config.RetryDelay)
	g.processor.logger = g.logger
	return g, nil
}

// Generate returns one unit-length vector per text, in input order.
// Batches run concurrently; the first failure cancels the rest.
func (g *Generator) Generate(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batchSize := max(g.config.BatchSize, 1)
	workers := max(g.config.Workers, 1)

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.logger.Info("embedding texts", "texts", len(texts), "batchSize", batchSize, "workers", workers)
	tracker := NewProgressTracker(g.progress, len(texts), g.config.ReportInterval)
	tracker.Start()

	result := make([][]float32, len(texts))
	batches := (len(texts) + batchSize - 1) / batchSize
	errs := make([]error, batches)
	var wg sync.WaitGroup

	for b := range batches {
		start := b * batchSize
		end := min(start+batchSize, len(texts))

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			vectors, err := g.processor.Process(ctx, texts[start:end])
			if err != nil {
				errs[b] = fmt.Errorf("batch %d: %w", b, err)
				cancel()
				return
			}
			copy(result[start:end], vectors)
			tracker.Increment(end - start)
		})
		if submitErr != nil {
			wg.Done()
			cancel()
			errs[b] = submitErr
			break
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		g.logger.Error("embedding failed", "err", err)
		return nil, err
	}

	tracker.Finish()
	g.logger.Info("embedding complete",
		"texts", len(texts),
		"cacheHits", g.processor.CacheHits(),
		"embedded", g.processor.CacheMisses(),
		"elapsed", tracker.Elapsed().Round(time.Millisecond))
	return result, nil
}
