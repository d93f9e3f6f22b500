// Package embedding turns article rows into normalized embedding vectors.
//
// Texts are composed from a row's title, summary and the head of its article
// text, embedded in batches on a worker pool with retry and exponential
// backoff, and optionally cached per model so unchanged texts are never sent
// to the embedding service twice.
package embedding
