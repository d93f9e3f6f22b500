package projection

import (
	"math/rand/v2"

	"github.com/danaugrs/go-tsne/tsne"
	"github.com/poiesic/factmap/core"
	"gonum.org/v1/gonum/mat"
)

// minTSNEVectors is the smallest input TSNE embeds; smaller inputs fall back
// to PCA.
const minTSNEVectors = 4

// TSNE projects vectors with t-distributed stochastic neighbor embedding.
// Perplexity is clamped below a third of the vector count.
//
// The affinities come from go-tsne. The starting layout is drawn from a
// source seeded with Options.Seed, so equal inputs and seeds give equal
// points.
type TSNE struct {
	opts Options
}

func (t *TSNE) Project(vectors [][]float32) ([]core.Point, error) {
	n := len(vectors)
	if n < minTSNEVectors {
		return (&PCA{opts: t.opts}).Project(vectors)
	}

	x, err := toMatrix(vectors, t.opts.Metric)
	if err != nil {
		return nil, err
	}

	perplexity := t.opts.Perplexity
	if limit := float64(n-1) / 3; perplexity <= 0 || perplexity >= limit {
		perplexity = max(limit-1, 1)
	}
	learningRate := t.opts.LearningRate
	if learningRate <= 0 {
		learningRate = DefaultOptions().LearningRate
	}
	maxIter := t.opts.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultOptions().MaxIter
	}

	logger := t.opts.Logger.With("component", "projection")
	logger.Info("running t-SNE", "vectors", n, "perplexity", perplexity,
		"max_iter", maxIter, "seed", t.opts.Seed)

	// Zero iterations: only P is computed. The unseeded layout go-tsne draws
	// is replaced below.
	model := tsne.NewTSNE(t.opts.Dimensions, perplexity, learningRate, 0, false)
	model.EmbedData(x, nil)

	y := descend(model.P, t.opts.Dimensions, t.opts.Seed, learningRate, maxIter)

	points := make([]core.Point, n)
	for i := range points {
		points[i] = core.Point{X: y[i*t.opts.Dimensions], Y: y[i*t.opts.Dimensions+1]}
	}
	return points, nil
}

// descend runs plain gradient descent on the t-SNE objective from a seeded
// Gaussian start and returns the n×dims layout, row-major.
func descend(p *mat.Dense, dims int, seed uint64, learningRate float64, maxIter int) []float64 {
	n, _ := p.Dims()
	rng := rand.New(rand.NewPCG(seed, seed))

	y := make([]float64, n*dims)
	for i := range y {
		y[i] = rng.NormFloat64() * tsne.InitialStandardDeviation
	}

	num := make([]float64, n*n)
	grad := make([]float64, n*dims)
	for range maxIter {
		// Student-t kernel of the current layout.
		var sum float64
		for i := range n {
			for j := i + 1; j < n; j++ {
				var d2 float64
				for k := range dims {
					diff := y[i*dims+k] - y[j*dims+k]
					d2 += diff * diff
				}
				q := 1 / (1 + d2)
				num[i*n+j], num[j*n+i] = q, q
				sum += 2 * q
			}
		}

		clear(grad)
		for i := range n {
			for j := range n {
				if i == j {
					continue
				}
				q := max(num[i*n+j]/sum, tsne.GreaterThanZero)
				m := 4 * (p.At(i, j) - q) * num[i*n+j]
				for k := range dims {
					grad[i*dims+k] += m * (y[i*dims+k] - y[j*dims+k])
				}
			}
		}

		mean := make([]float64, dims)
		for i := range n {
			for k := range dims {
				y[i*dims+k] -= learningRate * grad[i*dims+k]
				mean[k] += y[i*dims+k]
			}
		}
		for i := range n {
			for k := range dims {
				y[i*dims+k] -= mean[k] / float64(n)
			}
		}
	}
	return y
}

var _ Projector = (*TSNE)(nil)
