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

// Package config loads pipeline settings from YAML with environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/factmap/ai"
	"github.com/poiesic/factmap/cluster"
	"github.com/poiesic/factmap/normalize"
	"github.com/poiesic/factmap/patch"
	"github.com/poiesic/factmap/projection"
	"gopkg.in/yaml.v3"
)

const (
	embeddingHostEnv  = "FACTMAP_EMBEDDING_HOST"
	embeddingModelEnv = "FACTMAP_EMBEDDING_MODEL"
	extractorHostEnv  = "FACTMAP_EXTRACTOR_HOST"
	extractorModelEnv = "FACTMAP_EXTRACTOR_MODEL"
	apiTokenEnv       = "FACTMAP_API_TOKEN"
	cacheDirEnv       = "FACTMAP_CACHE_DIR"
)

// Config holds every setting of a pipeline run.
type Config struct {
	Input       string   `yaml:"input"`
	Outputs     []string `yaml:"outputs"`
	Labels      string   `yaml:"labels"`
	TextColumns []string `yaml:"textColumns"`
	Workers     int      `yaml:"workers"`
	LogLevel    string   `yaml:"logLevel"`

	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Projection ProjectionConfig `yaml:"projection"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Cache      CacheConfig      `yaml:"cache"`

	// Rules replace the built-in patch rules when set.
	Rules []patch.Rule `yaml:"rules"`
}

// EmbeddingConfig describes the OpenAI-compatible embedding service.
type EmbeddingConfig struct {
	Host       string        `yaml:"host"`
	Model      string        `yaml:"model"`
	Token      string        `yaml:"token"`
	BatchSize  int           `yaml:"batchSize"`
	MaxRetries int           `yaml:"maxRetries"`
	RetryDelay time.Duration `yaml:"retryDelay"`
}

// ExtractionConfig describes the chat model that fills a missing target column.
type ExtractionConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Host          string `yaml:"host"`
	Model         string `yaml:"model"`
	MinImportance int    `yaml:"minImportance"`
}

// ProjectionConfig selects and tunes the 2D projection.
type ProjectionConfig struct {
	Method     string  `yaml:"method"`
	Metric     string  `yaml:"metric"`
	Seed       uint64  `yaml:"seed"`
	Perplexity float64 `yaml:"perplexity"`
	MaxIter    int     `yaml:"maxIter"`
}

// ClusteringConfig tunes k-means.
type ClusteringConfig struct {
	K        int    `yaml:"k"`
	Seed     uint64 `yaml:"seed"`
	Restarts int    `yaml:"restarts"`
}

// CacheConfig locates the embedding cache. An empty Dir disables caching.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the settings the pipeline runs with when no file is given.
func Default() Config {
	aiDefaults := ai.DefaultConfig()
	projDefaults := projection.DefaultOptions()
	return Config{
		Input:       "factually_with_coordinates.csv",
		Outputs:     []string{"public/data.csv"},
		Labels:      "public/cluster_labels.json",
		TextColumns: slices.Clone(normalize.DefaultColumns),
		Workers:     2,
		LogLevel:    "info",
		Embedding: EmbeddingConfig{
			Host:       aiDefaults.EmbeddingHost,
			Model:      aiDefaults.EmbeddingModel,
			Token:      aiDefaults.Token,
			BatchSize:  32,
			MaxRetries: 3,
			RetryDelay: time.Second,
		},
		Extraction: ExtractionConfig{
			Host:          aiDefaults.ExtractorHost,
			Model:         aiDefaults.ExtractorModel,
			MinImportance: aiDefaults.MinImportance,
		},
		Projection: ProjectionConfig{
			Method:     projection.NamePCA,
			Metric:     projDefaults.Metric,
			Seed:       projDefaults.Seed,
			Perplexity: projDefaults.Perplexity,
			MaxIter:    projDefaults.MaxIter,
		},
		Clustering: ClusteringConfig{
			K:        cluster.DefaultK,
			Seed:     cluster.DefaultSeed,
			Restarts: cluster.DefaultRestarts,
		},
		Rules: patch.DefaultRules(),
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		// Keys absent from the file keep their defaults; present keys win,
		// zero values included.
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: cannot parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(embeddingHostEnv); v != "" {
		c.Embedding.Host = v
	}
	if v := os.Getenv(embeddingModelEnv); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv(apiTokenEnv); v != "" {
		c.Embedding.Token = v
	}
	if v := os.Getenv(extractorHostEnv); v != "" {
		c.Extraction.Host = v
	}
	if v := os.Getenv(extractorModelEnv); v != "" {
		c.Extraction.Model = v
	}
	if v := os.Getenv(cacheDirEnv); v != "" {
		c.Cache.Dir = v
	}
}

// Validate checks that the settings can drive a run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("%w: input is required", ErrInvalidConfig)
	}
	if len(c.Outputs) == 0 {
		return fmt.Errorf("%w: at least one output is required", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Embedding.BatchSize < 1 {
		return fmt.Errorf("%w: embedding batch size must be at least 1", ErrInvalidConfig)
	}
	if c.Embedding.MaxRetries < 1 {
		return fmt.Errorf("%w: embedding max retries must be at least 1", ErrInvalidConfig)
	}
	if c.Clustering.K < 1 {
		return fmt.Errorf("%w: clustering k must be at least 1", ErrInvalidConfig)
	}
	if _, err := projection.New(c.Projection.Method, c.ProjectionOptions(nil)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Extraction.Enabled {
		if err := c.AIConfig().ValidateExtractor(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if err := patch.Validate(c.Rules); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// AIConfig converts the embedding and extraction settings.
func (c Config) AIConfig() *ai.Config {
	cfg := ai.NewConfig(
		ai.WithEmbeddingHost(c.Embedding.Host),
		ai.WithEmbeddingModel(c.Embedding.Model),
		ai.WithExtractorHost(c.Extraction.Host),
		ai.WithExtractorModel(c.Extraction.Model),
		ai.WithToken(c.Embedding.Token),
		ai.WithMinImportance(c.Extraction.MinImportance),
	)
	cfg.Normalize()
	return cfg
}

// ProjectionOptions converts the projection settings.
func (c Config) ProjectionOptions(logger *slog.Logger) projection.Options {
	opts := projection.DefaultOptions()
	opts.Metric = c.Projection.Metric
	opts.Seed = c.Projection.Seed
	opts.Perplexity = c.Projection.Perplexity
	opts.MaxIter = c.Projection.MaxIter
	opts.Logger = logger
	return opts
}

// KMeans converts the clustering settings.
func (c Config) KMeans() cluster.KMeans {
	km := cluster.NewKMeans(c.Clustering.K, c.Clustering.Seed)
	if c.Clustering.Restarts > 0 {
		km.Restarts = c.Clustering.Restarts
	}
	return km
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, name)
	}
	return level, nil
}
