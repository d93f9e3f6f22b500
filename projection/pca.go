package projection

import (
	"math"

	"github.com/poiesic/factmap/core"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCA projects vectors onto their first two principal components.
// Each component's sign is fixed so that its largest loading is positive,
// which makes the output independent of the decomposition's sign choice.
type PCA struct {
	opts Options
}

// NewPCA returns a PCA projector.
func NewPCA(opts Options) (*PCA, error) {
	p, err := New(NamePCA, opts)
	if err != nil {
		return nil, err
	}
	return p.(*PCA), nil
}

func (p *PCA) Project(vectors [][]float32) ([]core.Point, error) {
	switch len(vectors) {
	case 0:
		return nil, nil
	case 1:
		return []core.Point{{}}, nil
	}

	x, err := toMatrix(vectors, p.opts.Metric)
	if err != nil {
		return nil, err
	}
	n, d := x.Dims()

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, ErrDecompositionFailed
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	components := min(n, d, p.opts.Dimensions)
	for c := range components {
		orient(&vecs, c)
	}

	centered := center(x)
	var scores mat.Dense
	scores.Mul(centered, vecs.Slice(0, d, 0, components))

	points := make([]core.Point, n)
	for i := range points {
		points[i].X = scores.At(i, 0)
		if components > 1 {
			points[i].Y = scores.At(i, 1)
		}
	}

	p.opts.Logger.Debug("projected vectors", "component", "projection",
		"method", NamePCA, "vectors", n, "dimensions", d)
	return points, nil
}

// orient flips column c of vecs so its largest-magnitude entry is positive.
func orient(vecs *mat.Dense, c int) {
	rows, _ := vecs.Dims()
	largest := 0.0
	for r := range rows {
		if v := vecs.At(r, c); math.Abs(v) > math.Abs(largest) {
			largest = v
		}
	}
	if largest >= 0 {
		return
	}
	for r := range rows {
		vecs.Set(r, c, -vecs.At(r, c))
	}
}

// center returns x with each column's mean subtracted.
func center(x *mat.Dense) *mat.Dense {
	n, d := x.Dims()
	out := mat.NewDense(n, d, nil)
	col := make([]float64, n)
	for j := range d {
		mat.Col(col, j, x)
		mean := stat.Mean(col, nil)
		for i, v := range col {
			out.Set(i, j, v-mean)
		}
	}
	return out
}

var _ Projector = (*PCA)(nil)
