package projection

import (
	"math"
	"testing"

	"github.com/poiesic/factmap/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func euclidean() Options {
	opts := DefaultOptions()
	opts.Metric = MetricEuclidean
	return opts
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	opts := DefaultOptions()
	opts.Dimensions = 3
	assert.ErrorIs(t, opts.Validate(), ErrUnsupportedDimensions)

	opts = DefaultOptions()
	opts.Metric = "manhattan"
	assert.ErrorIs(t, opts.Validate(), ErrUnsupportedMetric)
}

func TestNew(t *testing.T) {
	p, err := New("", DefaultOptions())
	require.NoError(t, err)
	assert.IsType(t, &PCA{}, p)

	p, err = New("TSNE", DefaultOptions())
	require.NoError(t, err)
	assert.IsType(t, &TSNE{}, p)

	_, err = New("umap", DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownProjector)
}

func TestPCA_Project(t *testing.T) {
	p, err := NewPCA(euclidean())
	require.NoError(t, err)

	t.Run("points on a line", func(t *testing.T) {
		vectors := [][]float32{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
		points, err := p.Project(vectors)
		require.NoError(t, err)
		require.Len(t, points, 3)

		expected := []float64{-1, 0, 1}
		for i, pt := range points {
			assert.InDelta(t, expected[i], pt.X, 1e-9, "x of point %d", i)
			assert.InDelta(t, 0, pt.Y, 1e-9, "y of point %d", i)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		vectors := [][]float32{
			{0.1, 0.9, 0.3, 0.2},
			{0.8, 0.1, 0.4, 0.5},
			{0.3, 0.3, 0.9, 0.1},
			{0.6, 0.7, 0.2, 0.8},
			{0.2, 0.4, 0.6, 0.9},
		}
		first, err := p.Project(vectors)
		require.NoError(t, err)
		second, err := p.Project(vectors)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("preserves distances along the dominant axis", func(t *testing.T) {
		vectors := [][]float32{{0, 0}, {10, 1}, {20, 0}}
		points, err := p.Project(vectors)
		require.NoError(t, err)
		spread := math.Abs(points[2].X - points[0].X)
		assert.InDelta(t, 20, spread, 0.5)
	})

	t.Run("trivial inputs", func(t *testing.T) {
		points, err := p.Project(nil)
		require.NoError(t, err)
		assert.Empty(t, points)

		points, err = p.Project([][]float32{{1, 2, 3}})
		require.NoError(t, err)
		assert.Equal(t, []core.Point{{}}, points)
	})

	t.Run("mismatched dimensions", func(t *testing.T) {
		_, err := p.Project([][]float32{{1, 2}, {1, 2, 3}})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

func TestTSNE_SmallInputFallsBackToPCA(t *testing.T) {
	vectors := [][]float32{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}}

	ts, err := New(NameTSNE, euclidean())
	require.NoError(t, err)
	pca, err := New(NamePCA, euclidean())
	require.NoError(t, err)

	got, err := ts.Project(vectors)
	require.NoError(t, err)
	want, err := pca.Project(vectors)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func clusteredVectors() [][]float32 {
	vectors := make([][]float32, 12)
	for i := range vectors {
		v := make([]float32, 4)
		v[i%3] = 1
		v[3] = float32(i) / 10
		vectors[i] = v
	}
	return vectors
}

func TestTSNE_SeedIsDeterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIter = 100

	project := func(opts Options) []core.Point {
		p, err := New(NameTSNE, opts)
		require.NoError(t, err)
		points, err := p.Project(clusteredVectors())
		require.NoError(t, err)
		require.Len(t, points, 12)
		return points
	}

	first := project(opts)
	assert.Equal(t, first, project(opts), "same seed, same points")

	for _, pt := range first {
		assert.False(t, math.IsNaN(pt.X) || math.IsNaN(pt.Y))
	}

	opts.Seed = 7
	assert.NotEqual(t, first, project(opts), "the seed picks the starting layout")
}

func TestToMatrix_CosineNormalizesRows(t *testing.T) {
	m, err := toMatrix([][]float32{{3, 4}, {0, 0}}, MetricCosine)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, m.At(0, 0), 1e-9)
	assert.InDelta(t, 0.8, m.At(0, 1), 1e-9)
	assert.Zero(t, m.At(1, 0))
	assert.Zero(t, m.At(1, 1))
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]core.Point{{X: -1, Y: 2}, {X: 3, Y: 4}})
	assert.Equal(t, Stats{MinX: -1, MaxX: 3, MeanX: 1, MinY: 2, MaxY: 4, MeanY: 3}, stats)
	assert.Equal(t, Stats{}, Summarize(nil))
}
