package regen

import "errors"

var (
	// ErrEmbedderRequired indicates coordinates must be computed but no
	// embedding generator is configured.
	ErrEmbedderRequired = errors.New("coordinates missing and no embedder configured")

	// ErrInvalidCoordinate indicates an x or y cell that is not a number.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)
