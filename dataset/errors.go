package dataset

import "errors"

var (
	// ErrEmptyInput indicates the input has no header row.
	ErrEmptyInput = errors.New("input has no header row")

	// ErrNoOutputs indicates a write was requested with no output paths.
	ErrNoOutputs = errors.New("no output paths")
)
