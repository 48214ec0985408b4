package inference

// Merge combines results, typically from several files sharing one schema.
//
// For every source column the highest-scoring match across all results is
// kept; on equal scores the first one encountered wins. When two sources
// then claim the same canonical target, the higher-scoring one keeps it
// (first encountered on ties) and the other source becomes unmatched.
// Unmatched sources and missing targets are recomputed over everything any
// input observed, so the merged result stays complete and one-to-one.
//
// Merging a result with itself returns an equal result, and reordering the
// inputs of one call only affects which of two equally scored matches is
// kept. Grouping does matter: a source that loses its canonical in an inner
// Merge is unmatched from then on, even if the winner later moves to a
// better canonical. Pass every result to a single call to avoid that.
func Merge(results ...*Result) *Result {
	type pick struct {
		match ColumnMatch
		seq   int
	}

	var (
		sources []string
		targets []string
		order   []string
		bySrc   = make(map[string]pick)
		seq     int
	)

	for _, r := range results {
		if r == nil {
			continue
		}
		for _, m := range r.Matches {
			sources = append(sources, m.Source)
			targets = append(targets, m.Canonical)

			cur, ok := bySrc[m.Source]
			switch {
			case !ok:
				order = append(order, m.Source)
				bySrc[m.Source] = pick{match: m, seq: seq}
			case m.Score > cur.match.Score:
				bySrc[m.Source] = pick{match: m, seq: seq}
			}
			seq++
		}
		sources = append(sources, r.UnmatchedSources...)
		targets = append(targets, r.MissingTargets...)
	}

	byTarget := make(map[string]pick, len(order))
	for _, src := range order {
		p := bySrc[src]
		cur, ok := byTarget[p.match.Canonical]
		if !ok || p.match.Score > cur.match.Score ||
			(p.match.Score == cur.match.Score && p.seq < cur.seq) {
			byTarget[p.match.Canonical] = p
		}
	}

	kept := make([]ColumnMatch, 0, len(byTarget))
	for _, src := range order {
		p := bySrc[src]
		if winner := byTarget[p.match.Canonical]; winner.seq == p.seq {
			kept = append(kept, p.match)
		}
	}

	return NewResult(kept, sources, targets)
}
