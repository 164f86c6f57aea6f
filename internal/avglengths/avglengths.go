// Package avglengths builds and serializes the average field-length
// table: index key -> average token count across all documents that have
// that field.
//
// Grounded on the original implementation's indexing/avg_lengths.rs
// (average = total tokens / document count, per field). Since vellum FST
// values are uint64, an average (a float64) is stored via an explicit
// bit-cast through codec.Float64ToBits/BitsToFloat64 rather than any
// unsafe pointer reinterpretation — and the reader always checks presence
// before casting, so a missing field never gets silently bit-cast from a
// zero FST miss into a spurious 0.0 average.
package avglengths

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/couchbase/vellum"

	"bm25fts/internal/codec"
)

// Builder accumulates index key -> average token count.
type Builder struct {
	totals map[string]uint64
	counts map[string]uint64
}

// NewBuilder creates an empty average-length builder.
func NewBuilder() *Builder {
	return &Builder{totals: make(map[string]uint64), counts: make(map[string]uint64)}
}

// Add folds one field's aggregate totals (sum of token counts, number of
// documents) into the running average for that index key.
func (b *Builder) Add(indexKey string, tokenTotal, docCount uint64) {
	b.totals[indexKey] += tokenTotal
	b.counts[indexKey] += docCount
}

// Write serializes the builder as a vellum FST mapping index key -> bit
// pattern of the average token count for that field.
func (b *Builder) Write() ([]byte, error) {
	keys := make([]string, 0, len(b.totals))
	for k := range b.totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var fstBuf bytes.Buffer
	fstBuilder, err := vellum.New(&fstBuf, nil)
	if err != nil {
		return nil, fmt.Errorf("avglengths: create fst builder: %w", err)
	}
	for _, k := range keys {
		count := b.counts[k]
		var avg float64
		if count > 0 {
			avg = float64(b.totals[k]) / float64(count)
		}
		if err := fstBuilder.Insert([]byte(k), codec.Float64ToBits(avg)); err != nil {
			return nil, fmt.Errorf("avglengths: insert field %q: %w", k, err)
		}
	}
	if err := fstBuilder.Close(); err != nil {
		return nil, fmt.Errorf("avglengths: close fst builder: %w", err)
	}
	return fstBuf.Bytes(), nil
}

// Reader provides read-only index-key -> average-length lookups.
type Reader struct {
	fst *vellum.FST
}

// OpenReader wraps already-loaded FST bytes (e.g. from mmap) in a Reader.
func OpenReader(fstBytes []byte) (*Reader, error) {
	fst, err := vellum.Load(fstBytes)
	if err != nil {
		return nil, fmt.Errorf("avglengths: load fst: %w", err)
	}
	return &Reader{fst: fst}, nil
}

// Close releases resources held by the underlying FST.
func (r *Reader) Close() error {
	return r.fst.Close()
}

// Lookup returns the average token count for indexKey and whether it was
// found. Callers must check ok before trusting the returned value — a
// missing field and a genuine zero average are distinguishable only
// through ok.
func (r *Reader) Lookup(indexKey string) (avg float64, ok bool, err error) {
	bits, found, err := r.fst.Get([]byte(indexKey))
	if err != nil {
		return 0, false, fmt.Errorf("avglengths: fst lookup %q: %w", indexKey, err)
	}
	if !found {
		return 0, false, nil
	}
	return codec.BitsToFloat64(bits), true, nil
}
