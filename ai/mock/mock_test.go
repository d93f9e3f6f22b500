package mock

import (
	"context"
	"math"
	"testing"

	"github.com/poiesic/factmap/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector(t *testing.T) {
	a := Vector("same text", 16)
	b := Vector("same text", 16)
	c := Vector("other text", 16)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	vectors, err := m.EmbedTexts(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Len(t, vectors[0], DefaultDimensions)

	_, err = m.EmbedText(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 2, m.CallCount())
	assert.Equal(t, 3, m.TextCount())

	m.Reset()
	assert.Zero(t, m.CallCount())
}

func TestMockEntityExtractor(t *testing.T) {
	m := NewMockEntityExtractor()

	entities, err := m.ExtractEntities(context.Background(),
		"Corrections to statements by Jane Tan and the Online Citizen Network. Nothing else.")
	require.NoError(t, err)
	assert.Equal(t, []ai.ExtractedEntity{
		{Name: "Jane Tan", Type: "person", Importance: 10},
		{Name: "Online Citizen Network", Type: "person", Importance: 9},
	}, entities)
	assert.Equal(t, 1, m.CallCount())
}
