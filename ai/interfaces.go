package ai

import "context"

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EntityExtractor names the people and organizations a correction notice is
// directed at. Implementations must be thread-safe for concurrent use.
type EntityExtractor interface {
	// ExtractEntities analyzes an article and returns its target entities,
	// most important first. Returns an empty slice if none are found.
	ExtractEntities(ctx context.Context, text string) ([]ExtractedEntity, error)
}

// ExtractedEntity is a named target identified in an article.
type ExtractedEntity struct {
	// Name is the entity as written in the article, e.g. "Ministry of Health".
	Name string

	// Type is one of EntityTypes.
	Type string

	// Importance is a score from 1-10 indicating how directly the article
	// addresses this entity.
	Importance int
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// EntityExtractor returns the entity extraction service.
	EntityExtractor() EntityExtractor

	// Close releases resources held by the provider and its services.
	Close() error
}
