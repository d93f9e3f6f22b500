// Package normalize repairs text-encoding artifacts in the article dataset.
//
// Text is the pure rewrite applied to a single cell. It first collapses the
// euro-sign mojibake left behind when UTF-8 punctuation was decoded as
// Windows-1252 and the leading byte was later stripped, then maps
// typographic punctuation to ASCII. Text is idempotent:
// Text(Text(s)) == Text(s) for every s.
//
// Columns applies Text to every cell of the configured columns of a table,
// fanning rows out to a worker pool and reassembling them in source order.
package normalize
