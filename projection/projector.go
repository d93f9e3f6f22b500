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

package projection

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/factmap/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	MetricCosine    = "cosine"
	MetricEuclidean = "euclidean"
)

const (
	NamePCA  = "pca"
	NameTSNE = "tsne"
)

// Projector maps N vectors to N points, one per vector, in input order.
type Projector interface {
	Project(vectors [][]float32) ([]core.Point, error)
}

// Options configures a Projector.
type Options struct {
	// Dimensions of the output. Only 2 is supported.
	Dimensions int
	// Metric is MetricCosine or MetricEuclidean.
	Metric string
	// Seed fixes the random state of projectors that have one.
	Seed uint64
	// Perplexity, LearningRate, and MaxIter tune TSNE and are ignored by PCA.
	Perplexity   float64
	LearningRate float64
	MaxIter      int

	Logger *slog.Logger
}

// DefaultOptions returns 2D cosine options with seed 42.
func DefaultOptions() Options {
	return Options{
		Dimensions:   2,
		Metric:       MetricCosine,
		Seed:         42,
		Perplexity:   30,
		LearningRate: 200,
		MaxIter:      1000,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Dimensions != 2 {
		return fmt.Errorf("%w: %d", ErrUnsupportedDimensions, o.Dimensions)
	}
	switch o.Metric {
	case MetricCosine, MetricEuclidean:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMetric, o.Metric)
	}
	return nil
}

// New returns the projector registered under name.
func New(name string, opts Options) (Projector, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	switch strings.ToLower(name) {
	case "", NamePCA:
		return &PCA{opts: opts}, nil
	case NameTSNE:
		return &TSNE{opts: opts}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProjector, name)
}

// toMatrix copies vectors into an N×D matrix, L2-normalizing each row when
// the metric is cosine. Zero vectors stay zero.
func toMatrix(vectors [][]float32, metric string) (*mat.Dense, error) {
	n, d := len(vectors), len(vectors[0])
	data := make([]float64, 0, n*d)
	row := make([]float64, d)

	for i, v := range vectors {
		if len(v) != d {
			return nil, fmt.Errorf("%w: vector %d has %d values, want %d", ErrDimensionMismatch, i, len(v), d)
		}
		for j, x := range v {
			row[j] = float64(x)
		}
		if metric == MetricCosine {
			if norm := floats.Norm(row, 2); norm > 0 {
				floats.Scale(1/norm, row)
			}
		}
		data = append(data, row...)
	}
	return mat.NewDense(n, d, data), nil
}
