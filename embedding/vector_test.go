package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/blas/blas32"
)

func TestNormalizeVector(t *testing.T) {
	cases := map[string]struct {
		in, want []float32
	}{
		"already unit": {in: []float32{0, 1, 0}, want: []float32{0, 1, 0}},
		"3-4-5":        {in: []float32{3, 4}, want: []float32{0.6, 0.8}},
		"negative":     {in: []float32{-6, 8}, want: []float32{-0.6, 0.8}},
		"zero":         {in: []float32{0, 0, 0}, want: []float32{0, 0, 0}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := NormalizeVector(tc.in)
			require.Len(t, got, len(tc.want))
			assert.InDeltaSlice(t, tc.want, got, 1e-6)
		})
	}

	t.Run("input untouched", func(t *testing.T) {
		in := []float32{10, 0, 0, 0}
		out := NormalizeVector(in)
		assert.Equal(t, float32(10), in[0])
		assert.InDelta(t, 1.0, blas32.Nrm2(blas32.Vector{N: len(out), Inc: 1, Data: out}), 1e-6)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})
}
