// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage provides the storage abstraction for the embedding cache.
//
// Embedding a few thousand articles through a remote model is the slowest
// step of a run. The cache keeps every vector keyed by the model name and the
// content hash of the embedded text, so re-running the pipeline only embeds
// texts that changed.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the storage interfaces:
//
//	cache, err := badger.NewEmbeddingCache(backend) // returns storage.EmbeddingCache
//
// Consumers depend on EmbeddingCache only, so tests can substitute an
// in-memory backend:
//
//	cache, backend, err := badger.NewMemoryEmbeddingCache()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// Implementations must be safe for concurrent use; embedding batches run on a
// worker pool and read and write the cache concurrently.
package storage
