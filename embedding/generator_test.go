package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/factmap/ai/mock"
	"github.com/poiesic/factmap/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTexts(n int) []string {
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("article %d", i)
	}
	return texts
}

func TestNewGenerator_RequiresEmbedder(t *testing.T) {
	_, err := NewGenerator(nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestNewGenerator_InvalidRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 0
	_, err := NewGenerator(mock.NewMockEmbedder(), config)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestGenerator_PreservesOrder(t *testing.T) {
	config := DefaultConfig()
	config.BatchSize = 3
	config.Workers = 4

	embedder := mock.NewMockEmbedder()
	var progress bytes.Buffer
	g, err := NewGenerator(embedder, config, WithProgress(&progress))
	require.NoError(t, err)

	texts := testTexts(20)
	vectors, err := g.Generate(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))

	for i, text := range texts {
		assert.InDeltaSlice(t, mock.Vector(text, mock.DefaultDimensions), vectors[i], 1e-6, "row %d", i)
	}
	assert.Equal(t, 7, embedder.CallCount())
	assert.Contains(t, progress.String(), "20/20")
}

func TestGenerator_Empty(t *testing.T) {
	g, err := NewGenerator(mock.NewMockEmbedder(), nil)
	require.NoError(t, err)

	vectors, err := g.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestGenerator_BatchFailure(t *testing.T) {
	config := DefaultConfig()
	config.BatchSize = 2
	config.MaxRetries = 1
	config.RetryDelay = time.Millisecond

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if strings.HasSuffix(texts[0], " 4") {
			return nil, errors.New("service unavailable")
		}
		return make([][]float32, len(texts)), nil
	}
	g, err := NewGenerator(embedder, config)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), testTexts(10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service unavailable")
}

func TestGenerator_CachedRerunSkipsEmbedder(t *testing.T) {
	cache, backend, err := badger.NewMemoryEmbeddingCache()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	texts := testTexts(8)
	embedder := mock.NewMockEmbedder()

	first, err := NewGenerator(embedder, nil, WithCache(cache, "all-minilm"))
	require.NoError(t, err)
	want, err := first.Generate(ctx, texts)
	require.NoError(t, err)
	assert.Equal(t, 8, embedder.TextCount())

	second, err := NewGenerator(embedder, nil, WithCache(cache, "all-minilm"))
	require.NoError(t, err)
	got, err := second.Generate(ctx, texts)
	require.NoError(t, err)

	assert.Equal(t, 8, embedder.TextCount(), "second run should be served from cache")
	assert.Equal(t, want, got)
}
