package embedding

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmbedderRequired is returned when no embedder is supplied.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrCountMismatch is returned when the embedder returns a different
	// number of vectors than texts submitted.
	ErrCountMismatch = errors.New("embedding count mismatch")
)
