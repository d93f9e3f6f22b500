// Package projection reduces embedding vectors to 2D coordinates.
//
// PCA is the default Projector: it is deterministic, so re-projecting the
// same vectors always yields the same points. TSNE gives a more readable
// layout for large datasets but draws from the process-wide random source,
// so its output differs between runs.
package projection
