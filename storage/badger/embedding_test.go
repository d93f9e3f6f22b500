package badger

import (
	"context"
	"testing"

	"github.com/poiesic/factmap/core"
)

func TestEmbeddingCacheBasics(t *testing.T) {
	cache, backend, err := NewMemoryEmbeddingCache()
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer func() { cache.Close(); backend.Close() }()

	ctx := context.Background()
	first := core.IDFromContent("first article")
	second := core.IDFromContent("second article")

	err = cache.PutEmbeddings(ctx,
		&core.Embedding{ID: first, Model: "mini", Vector: []float32{0.1, 0.2}},
		&core.Embedding{ID: second, Model: "mini", Vector: []float32{0.3, 0.4}},
		&core.Embedding{ID: first, Model: "large", Vector: []float32{1, 2, 3}},
	)
	if err != nil {
		t.Fatalf("Failed to put embeddings: %v", err)
	}

	found, err := cache.GetEmbeddings(ctx, "mini", first, second, core.IDFromContent("missing"))
	if err != nil {
		t.Fatalf("Failed to get embeddings: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Expected 2 cached vectors, got %d", len(found))
	}
	if found[second][1] != 0.4 {
		t.Fatalf("Expected 0.4, got %v", found[second][1])
	}

	found, err = cache.GetEmbeddings(ctx, "large", first)
	if err != nil {
		t.Fatalf("Failed to get embeddings: %v", err)
	}
	if len(found[first]) != 3 {
		t.Fatalf("Expected the large model's vector, got %v", found[first])
	}
}

func TestEmbeddingCacheReplace(t *testing.T) {
	cache, backend, err := NewMemoryEmbeddingCache()
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	id := core.IDFromContent("text")

	for _, v := range []float32{1, 2} {
		if err := cache.PutEmbeddings(ctx, &core.Embedding{ID: id, Model: "m", Vector: []float32{v}}); err != nil {
			t.Fatalf("Failed to put embedding: %v", err)
		}
	}

	found, err := cache.GetEmbeddings(ctx, "m", id)
	if err != nil {
		t.Fatalf("Failed to get embedding: %v", err)
	}
	if found[id][0] != 2 {
		t.Fatalf("Expected replaced vector, got %v", found[id])
	}

	count, err := cache.CountEmbeddings(ctx, "m")
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 embedding, got %d", count)
	}
}

func TestEmbeddingCacheDeleteModel(t *testing.T) {
	cache, backend, err := NewMemoryEmbeddingCache()
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	var embeddings []*core.Embedding
	for _, text := range []string{"a", "b", "c"} {
		embeddings = append(embeddings,
			&core.Embedding{ID: core.IDFromContent(text), Model: "m", Vector: []float32{1}},
			&core.Embedding{ID: core.IDFromContent(text), Model: "m:v2", Vector: []float32{2}},
		)
	}
	if err := cache.PutEmbeddings(ctx, embeddings...); err != nil {
		t.Fatalf("Failed to put embeddings: %v", err)
	}

	deleted, err := cache.DeleteModel(ctx, "m")
	if err != nil {
		t.Fatalf("Failed to delete model: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("Expected 3 deleted, got %d", deleted)
	}

	count, err := cache.CountEmbeddings(ctx, "m")
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected 0 embeddings for m, got %d", count)
	}

	count, err = cache.CountEmbeddings(ctx, "m:v2")
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 3 {
		t.Fatalf("Expected 3 embeddings for m:v2, got %d", count)
	}
}
