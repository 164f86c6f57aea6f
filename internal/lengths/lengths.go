// Package lengths builds and serializes the per-field document-length
// table: DocID -> token count.
//
// Grounded on the original implementation's indexing/lengths.rs, with one
// deliberate divergence: lengths here always record the number of tokens a
// field produced, never its raw byte length, per the BM25F length
// normalization requirement (the original source computes byte length;
// see DESIGN.md for the rationale). Unlike postings, a length value is
// already a plain uint64, so it can live directly as a vellum FST value —
// no companion data file is needed.
package lengths

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/couchbase/vellum"
)

// Builder accumulates DocID -> token count for a single field.
type Builder struct {
	entries map[string]uint64
}

// NewBuilder creates an empty per-field length builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]uint64)}
}

// Set records the token count for docID. Each DocID is only ever seen once
// per field during a build (one document is processed exactly once), so
// this overwrites rather than accumulates.
func (b *Builder) Set(docID string, tokenCount uint64) {
	b.entries[docID] = tokenCount
}

// Merge folds other's entries into b. Since builders are partitioned by
// worker over disjoint sets of documents, this is a disjoint union: no two
// builders should ever report the same DocID.
func (b *Builder) Merge(other *Builder) {
	for docID, n := range other.entries {
		b.entries[docID] = n
	}
}

// DocCount returns the number of documents accumulated.
func (b *Builder) DocCount() int {
	return len(b.entries)
}

// Sum returns the total token count across all accumulated documents,
// used by the average-lengths builder and the stats writer.
func (b *Builder) Sum() uint64 {
	var total uint64
	for _, n := range b.entries {
		total += n
	}
	return total
}

// Write serializes the builder as a vellum FST mapping DocID -> token
// count.
func (b *Builder) Write() ([]byte, error) {
	docIDs := make([]string, 0, len(b.entries))
	for id := range b.entries {
		docIDs = append(docIDs, id)
	}
	sort.Strings(docIDs)

	var fstBuf bytes.Buffer
	fstBuilder, err := vellum.New(&fstBuf, nil)
	if err != nil {
		return nil, fmt.Errorf("lengths: create fst builder: %w", err)
	}
	for _, id := range docIDs {
		if err := fstBuilder.Insert([]byte(id), b.entries[id]); err != nil {
			return nil, fmt.Errorf("lengths: insert docid %q: %w", id, err)
		}
	}
	if err := fstBuilder.Close(); err != nil {
		return nil, fmt.Errorf("lengths: close fst builder: %w", err)
	}
	return fstBuf.Bytes(), nil
}

// Reader provides read-only DocID -> token-count lookups over a built
// length field.
type Reader struct {
	fst *vellum.FST
}

// OpenReader wraps already-loaded FST bytes (e.g. from mmap) in a Reader.
func OpenReader(fstBytes []byte) (*Reader, error) {
	fst, err := vellum.Load(fstBytes)
	if err != nil {
		return nil, fmt.Errorf("lengths: load fst: %w", err)
	}
	return &Reader{fst: fst}, nil
}

// Close releases resources held by the underlying FST.
func (r *Reader) Close() error {
	return r.fst.Close()
}

// Lookup returns the token count for docID and whether it was found.
func (r *Reader) Lookup(docID string) (uint64, bool, error) {
	v, ok, err := r.fst.Get([]byte(docID))
	if err != nil {
		return 0, false, fmt.Errorf("lengths: fst lookup %q: %w", docID, err)
	}
	return v, ok, nil
}
