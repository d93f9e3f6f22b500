package pipeline

import "errors"

var (
	// ErrUnknownMode indicates a mode name that is not one of the Modes.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrNoOutputs indicates a pipeline configured without output paths.
	ErrNoOutputs = errors.New("no output paths configured")
)
