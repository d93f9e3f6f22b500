package storage

import (
	"context"

	"github.com/poiesic/factmap/core"
)

// EmbeddingCache stores embedding vectors by model and content ID.
// Implementations must be thread-safe and support concurrent access.
type EmbeddingCache interface {
	// GetEmbeddings looks up cached vectors for model.
	// IDs with no cached vector are absent from the result; a miss is not an error.
	GetEmbeddings(ctx context.Context, model string, ids ...core.ID) (map[core.ID][]float32, error)

	// PutEmbeddings stores embeddings, replacing any cached vector for the
	// same model and ID. Sets InsertedAt if not already set.
	PutEmbeddings(ctx context.Context, embeddings ...*core.Embedding) error

	// CountEmbeddings returns the number of vectors cached for model.
	CountEmbeddings(ctx context.Context, model string) (int, error)

	// DeleteModel removes every vector cached for model and returns how many
	// were removed.
	DeleteModel(ctx context.Context, model string) (int, error)

	// Close releases resources held by the cache.
	Close() error
}
