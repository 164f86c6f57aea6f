// Package scoring implements the BM25F relevance formula used by the
// retriever.
//
// Grounded on the teacher's internal/scoring package for the scorer-struct
// shape (a small value type holding k1/b plus the per-field statistics
// needed to score one term), but the formula itself is replaced: the
// teacher computes the textbook Robertson-Sparck-Jones IDF
// (ln(1 + (N - n + 0.5) / (n + 0.5))), while this package uses the
// non-standard IDF = n_docs / df from the original implementation's
// retrieval module. This is a deliberate, spec-mandated departure from
// both the teacher and from classical BM25 — not an oversight.
package scoring

// FieldStats holds the per-field inputs the BM25F term-score formula needs
// for a single matching field on a single document.
//
// DocLen is the cross-field weighted document length dl_w(d) — the sum of
// weight*length over every field the document matched the term in, the
// same value shared by every FieldStats for a given document — not this
// field's own unweighted length. AvgLen is this field's own unweighted
// average length across the corpus; FieldTermScore weights it internally.
type FieldStats struct {
	Weight   float64
	K1       float64
	B        float64
	TermFreq uint64
	DocLen   float64
	AvgLen   float64
}

// IDF computes the inverse document frequency for a term given the total
// document count and the number of documents containing the term across
// every field it matched in.
//
//	IDF(t) = n_docs / df(t)
//
// This is the non-standard form mandated by the original design: it grows
// unboundedly as df shrinks (no damping, no floor), rather than the
// smoothed logarithmic form classical BM25 uses.
func IDF(numDocs, docFreq uint64) float64 {
	if docFreq == 0 {
		return 0
	}
	return float64(numDocs) / float64(docFreq)
}

// FieldTermScore computes one field's contribution to a term's BM25F
// score, using the field-weighted term frequency tf' = weight*tf in both
// the numerator and the denominator's additive term, and the cross-field
// weighted length ratio dl_w(d) / (weight*avgdl) rather than this field's
// own unweighted dl/avgdl:
//
//	(tf' * (k1 + 1)) / (k1 * (1 - b + b * dl_w(d) / wavg) + tf')
func FieldTermScore(f FieldStats) float64 {
	if f.TermFreq == 0 {
		return 0
	}
	tfPrime := f.Weight * float64(f.TermFreq)
	wavg := f.Weight * f.AvgLen

	denom := f.K1*(1-f.B+f.B*lengthRatio(f.DocLen, wavg)) + tfPrime
	if denom == 0 {
		return 0
	}
	return (tfPrime * (f.K1 + 1)) / denom
}

// TermScore sums a term's per-field contributions across every field it
// matched in on this document, then multiplies by the term's IDF.
func TermScore(idf float64, fields []FieldStats) float64 {
	var sum float64
	for _, f := range fields {
		sum += FieldTermScore(f)
	}
	return idf * sum
}

func lengthRatio(dl, avgdl float64) float64 {
	if avgdl == 0 {
		return 0
	}
	return dl / avgdl
}
