package embedding

import "gonum.org/v1/gonum/blas/blas32"

// NormalizeVector returns a unit-length copy of v. A zero vector stays zero.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	out := blas32.Vector{N: len(v), Inc: 1, Data: make([]float32, len(v))}
	blas32.Copy(blas32.Vector{N: len(v), Inc: 1, Data: v}, out)

	norm := blas32.Nrm2(out)
	if norm == 0 {
		return out.Data
	}
	blas32.Scal(1/norm, out)
	return out.Data
}
