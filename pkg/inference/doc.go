// Package inference maps the columns of an arbitrary tabular frame onto a
// canonical schema.
//
// Every observed column is scored against every schema descriptor using
// textual similarity of the column name to the descriptor's labels
// (ScoreLabel) and content-sniffing detection hooks run over a bounded
// sample of the column's values (Hook). Candidates are then resolved into a
// one-to-one assignment by a single greedy pass over all candidates ranked
// by score. The greedy pass favours the globally strongest pairs first; it
// is not a maximum-weight bipartite matching, and callers depend on that
// exact behaviour.
//
// Each surviving ColumnMatch carries the reasons that produced its score, so
// a Result can be audited or rendered. Results from several frames can be
// combined with Merge.
//
// An Engine holds no mutable state. Infer may be called concurrently on
// independent frames.
package inference
