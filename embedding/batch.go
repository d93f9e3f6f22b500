package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/poiesic/factmap/ai"
	"github.com/poiesic/factmap/core"
	"github.com/poiesic/factmap/storage"
)

// BatchProcessor embeds one batch of texts.
// Vectors are looked up in the cache first, when one is configured; only
// misses reach the embedder, and fresh vectors are written back.
type BatchProcessor struct {
	embedder       ai.Embedder
	cache          storage.EmbeddingCache
	model          string
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewBatchProcessor creates a new batch processor.
// cache may be nil; model namespaces cached vectors.
// maxRetries: maximum number of attempts for each embedding call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(embedder ai.Embedder, cache storage.EmbeddingCache, model string, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		embedder:       embedder,
		cache:          cache,
		model:          model,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		logger:         slog.Default().With("component", "embedding"),
	}
}

// Process returns one unit-length vector per text, in input order.
func (bp *BatchProcessor) Process(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ids := make([]core.ID, len(texts))
	for i, text := range texts {
		ids[i] = core.IDFromContent(text)
	}

	cached := map[core.ID][]float32{}
	if bp.cache != nil {
		found, err := bp.cache.GetEmbeddings(ctx, bp.model, ids...)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedding cache: %w", err)
		}
		cached = found
	}

	// Each distinct uncached text is embedded once.
	var pending []string
	var pendingIDs []core.ID
	queued := make(map[core.ID]bool)
	for i, id := range ids {
		if _, ok := cached[id]; ok || queued[id] {
			continue
		}
		queued[id] = true
		pending = append(pending, texts[i])
		pendingIDs = append(pendingIDs, id)
	}
	bp.hits.Add(int64(len(texts) - len(pending)))
	bp.misses.Add(int64(len(pending)))

	if len(pending) > 0 {
		var vectors [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var err error
			vectors, err = bp.embedder.EmbedTexts(ctx, pending)
			return err
		}, bp.maxRetries, bp.retryBaseDelay)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
		}
		if len(vectors) != len(pending) {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCountMismatch, len(pending), len(vectors))
		}

		fresh := make([]*core.Embedding, len(pending))
		for i, vector := range vectors {
			normalized := NormalizeVector(vector)
			cached[pendingIDs[i]] = normalized
			fresh[i] = &core.Embedding{ID: pendingIDs[i], Model: bp.model, Vector: normalized}
		}

		if bp.cache != nil {
			if err := bp.cache.PutEmbeddings(ctx, fresh...); err != nil {
				// A failed write only costs a re-embed next run.
				bp.logger.Warn("failed to write embedding cache", "err", err)
			}
		}
	}

	result := make([][]float32, len(texts))
	for i, id := range ids {
		result[i] = cached[id]
	}
	return result, nil
}

// CacheHits returns the number of texts served from the cache.
func (bp *BatchProcessor) CacheHits() int {
	return int(bp.hits.Load())
}

// CacheMisses returns the number of texts sent to the embedder.
func (bp *BatchProcessor) CacheMisses() int {
	return int(bp.misses.Load())
}
