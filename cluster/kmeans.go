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

package cluster

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/poiesic/factmap/core"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultK        = 8
	DefaultSeed     = 42
	DefaultRestarts = 10
	DefaultMaxIter  = 300
)

// KMeans partitions points into K groups with Lloyd's algorithm seeded by
// k-means++. The run with the lowest inertia across Restarts is kept.
type KMeans struct {
	K        int
	Seed     uint64
	Restarts int
	MaxIter  int
}

// Result is the outcome of a k-means fit.
type Result struct {
	// Labels holds one cluster id in [0,K) per input point.
	Labels    []int
	Centroids []core.Point
	// Inertia is the sum of squared distances to the assigned centroids.
	Inertia float64
}

// NewKMeans returns a KMeans with the default restarts and iteration cap.
func NewKMeans(k int, seed uint64) KMeans {
	return KMeans{K: k, Seed: seed, Restarts: DefaultRestarts, MaxIter: DefaultMaxIter}
}

// Fit clusters points. When there are fewer points than K, K is reduced to
// the number of points.
func (km KMeans) Fit(points []core.Point) (Result, error) {
	if km.K < 1 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidK, km.K)
	}
	if len(points) == 0 {
		return Result{}, ErrNoPoints
	}

	k := min(km.K, len(points))
	restarts := max(km.Restarts, 1)
	maxIter := km.MaxIter
	if maxIter < 1 {
		maxIter = DefaultMaxIter
	}

	data := make([][]float64, len(points))
	for i, p := range points {
		data[i] = []float64{p.X, p.Y}
	}

	rng := rand.New(rand.NewPCG(km.Seed, km.Seed))

	var best *run
	for range restarts {
		r := lloyd(data, seedCentroids(data, k, rng), maxIter)
		if best == nil || r.inertia < best.inertia {
			best = r
		}
	}

	centroids := make([]core.Point, k)
	for c, v := range best.centroids {
		centroids[c] = core.Point{X: v[0], Y: v[1]}
	}
	return Result{Labels: best.labels, Centroids: centroids, Inertia: best.inertia}, nil
}

type run struct {
	labels    []int
	centroids [][]float64
	inertia   float64
}

// seedCentroids picks k initial centroids with k-means++: the first
// uniformly, each following one with probability proportional to its squared
// distance from the nearest centroid chosen so far.
func seedCentroids(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(data[rng.IntN(len(data))]))

	dist := make([]float64, len(data))
	for i, v := range data {
		dist[i] = sqDistance(v, centroids[0])
	}

	for len(centroids) < k {
		total := floats.Sum(dist)
		next := 0
		if total == 0 {
			// Every remaining point coincides with a centroid.
			next = rng.IntN(len(data))
		} else {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				if d == 0 {
					continue
				}
				next = i
				acc += d
				if acc >= target {
					break
				}
			}
		}

		c := clone(data[next])
		centroids = append(centroids, c)
		for i, v := range data {
			dist[i] = math.Min(dist[i], sqDistance(v, c))
		}
	}
	return centroids
}

// lloyd alternates assignment and update steps until assignments settle or
// maxIter is reached. A centroid that loses every member keeps its position.
func lloyd(data [][]float64, centroids [][]float64, maxIter int) *run {
	k := len(centroids)
	labels := make([]int, len(data))
	for i := range labels {
		labels[i] = -1
	}
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, len(data[0]))
	}
	counts := make([]int, k)

	for range maxIter {
		changed := false
		for i, v := range data {
			c := nearest(v, centroids)
			if labels[i] != c {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		for c := range sums {
			floats.Scale(0, sums[c])
			counts[c] = 0
		}
		for i, v := range data {
			floats.Add(sums[labels[i]], v)
			counts[labels[i]]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			copy(centroids[c], sums[c])
			floats.Scale(1/float64(counts[c]), centroids[c])
		}
	}

	inertia := 0.0
	for i, v := range data {
		inertia += sqDistance(v, centroids[labels[i]])
	}
	return &run{labels: labels, centroids: centroids, inertia: inertia}
}

// nearest returns the index of the closest centroid; ties go to the lowest index.
func nearest(v []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDistance(v, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func sqDistance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(v []float64) []float64 {
	c := make([]float64, len(v))
	copy(c, v)
	return c
}
