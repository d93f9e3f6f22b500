package projection

import "errors"

var (
	ErrUnsupportedMetric     = errors.New("unsupported distance metric")
	ErrUnsupportedDimensions = errors.New("only two output dimensions are supported")
	ErrUnknownProjector      = errors.New("unknown projector")
	ErrDimensionMismatch     = errors.New("vectors differ in dimension")
	ErrDecompositionFailed   = errors.New("principal component decomposition failed")
)
