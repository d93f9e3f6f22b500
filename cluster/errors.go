package cluster

import "errors"

var (
	ErrInvalidK       = errors.New("cluster count must be positive")
	ErrNoPoints       = errors.New("no points to cluster")
	ErrLengthMismatch = errors.New("labels and values differ in length")
)
