package storage

import (
	"testing"
	"time"

	"github.com/poiesic/factmap/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalEmbedding(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name      string
		embedding *core.Embedding
	}{
		{
			name: "typical embedding",
			embedding: &core.Embedding{
				ID:         core.IDFromContent("Title Summary Article"),
				Model:      "all-MiniLM-L6-v2",
				Vector:     []float32{0.1, -0.25, 3.5, 0},
				InsertedAt: now,
			},
		},
		{
			name: "empty vector and model",
			embedding: &core.Embedding{
				ID:         core.ID(18446744073709551615), // max uint64
				Vector:     []float32{},
				InsertedAt: now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalEmbedding(tt.embedding)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalEmbedding(data)
			require.NoError(t, err)
			assert.Equal(t, tt.embedding.ID, decoded.ID)
			assert.Equal(t, tt.embedding.Model, decoded.Model)
			assert.Equal(t, tt.embedding.Vector, decoded.Vector)
			assert.True(t, tt.embedding.InsertedAt.Equal(decoded.InsertedAt))
		})
	}
}

func TestUnmarshalEmbedding_Invalid(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		_, err := UnmarshalEmbedding([]byte{})
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("truncated vector", func(t *testing.T) {
		data := MarshalEmbedding(&core.Embedding{
			ID:     core.ID(7),
			Model:  "m",
			Vector: []float32{1, 2, 3, 4, 5, 6, 7, 8},
		})
		_, err := UnmarshalEmbedding(data[:len(data)-12])
		assert.ErrorIs(t, err, ErrTruncatedData)
	})
}
