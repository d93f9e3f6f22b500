package projection

import (
	"github.com/poiesic/factmap/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the spread of projected points.
type Stats struct {
	MinX, MaxX, MeanX float64
	MinY, MaxY, MeanY float64
}

// Summarize computes Stats over points. The zero Stats is returned for no points.
func Summarize(points []core.Point) Stats {
	if len(points) == 0 {
		return Stats{}
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return Stats{
		MinX: floats.Min(xs), MaxX: floats.Max(xs), MeanX: stat.Mean(xs, nil),
		MinY: floats.Min(ys), MaxY: floats.Max(ys), MeanY: stat.Mean(ys, nil),
	}
}
