// Package postings builds and serializes the per-field inverted index:
// token -> (DocID -> term frequency).
//
// The in-memory accumulation algorithm is grounded on the original
// implementation's indexing/postings.rs (per-field map of token to a
// DocID->count map, built incrementally per document and merged across
// workers). The on-disk format follows the harshagw-postings segment
// builder's pattern of writing an ordered vellum FST whose values are byte
// offsets into a companion data file holding the actual payloads, rather
// than trying to fit variable-length postings directly into FST values.
package postings

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/couchbase/vellum"

	"bm25fts/internal/codec"
)

// Builder accumulates token -> DocID -> tf for a single field.
type Builder struct {
	// entries[token][docID] = tf
	entries map[string]map[string]uint64
}

// NewBuilder creates an empty per-field postings builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]map[string]uint64)}
}

// Add records one occurrence of token in docID.
func (b *Builder) Add(token, docID string) {
	m, ok := b.entries[token]
	if !ok {
		m = make(map[string]uint64)
		b.entries[token] = m
	}
	m[docID]++
}

// Merge folds other's entries into b, summing term frequencies for any
// (token, docID) pair that appears in both. This is commutative and
// associative, so worker-local builders can be merged in any order.
func (b *Builder) Merge(other *Builder) {
	for token, docs := range other.entries {
		dst, ok := b.entries[token]
		if !ok {
			dst = make(map[string]uint64, len(docs))
			b.entries[token] = dst
		}
		for docID, tf := range docs {
			dst[docID] += tf
		}
	}
}

// TokenCount returns the number of distinct tokens accumulated.
func (b *Builder) TokenCount() int {
	return len(b.entries)
}

// Write serializes the builder's accumulated postings as a vellum FST
// (token -> byte offset) plus a companion data blob. At each offset the data
// blob holds an 8-byte little-endian length-of-payload prefix followed by a
// codec-encoded DocFreqMap (sorted ascending by DocID) of exactly that many
// bytes — the FST maps a token to the offset of this length prefix, not to
// the payload itself, mirroring the original implementation's postings
// framing (serialize(length_of_payload) then serialize(postings_entry)).
//
// Returns the FST bytes and the data bytes; callers are responsible for
// persisting them (see internal/indexer, which writes both atomically).
func (b *Builder) Write() (fstBytes, dataBytes []byte, err error) {
	tokens := make([]string, 0, len(b.entries))
	for t := range b.entries {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)

	var data bytes.Buffer
	var fstBuf bytes.Buffer
	fstBuilder, err := vellum.New(&fstBuf, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("postings: create fst builder: %w", err)
	}

	for _, token := range tokens {
		docs := b.entries[token]
		docIDs := make([]string, 0, len(docs))
		for id := range docs {
			docIDs = append(docIDs, id)
		}
		sort.Strings(docIDs)

		entries := make([]codec.DocFreqEntry, len(docIDs))
		for i, id := range docIDs {
			entries[i] = codec.DocFreqEntry{DocID: id, Freq: docs[id]}
		}

		payload := codec.EncodeDocFreqMap(entries)

		offset := uint64(data.Len())
		data.Write(codec.PutUint64(nil, uint64(len(payload))))
		data.Write(payload)

		if err := fstBuilder.Insert([]byte(token), offset); err != nil {
			return nil, nil, fmt.Errorf("postings: insert token %q: %w", token, err)
		}
	}

	if err := fstBuilder.Close(); err != nil {
		return nil, nil, fmt.Errorf("postings: close fst builder: %w", err)
	}

	return fstBuf.Bytes(), data.Bytes(), nil
}

// Reader provides read-only lookups over a built postings field, backed by
// an in-memory (typically mmap-ed) FST and data blob.
type Reader struct {
	fst  *vellum.FST
	data []byte
}

// OpenReader wraps already-loaded FST and data bytes (e.g. from mmap) in a
// Reader.
func OpenReader(fstBytes, dataBytes []byte) (*Reader, error) {
	fst, err := vellum.Load(fstBytes)
	if err != nil {
		return nil, fmt.Errorf("postings: load fst: %w", err)
	}
	return &Reader{fst: fst, data: dataBytes}, nil
}

// Close releases resources held by the underlying FST.
func (r *Reader) Close() error {
	return r.fst.Close()
}

// Lookup returns the DocID -> tf entries for token, and whether the token
// was present at all.
func (r *Reader) Lookup(token string) ([]codec.DocFreqEntry, bool, error) {
	offset, exists, err := r.fst.Get([]byte(token))
	if err != nil {
		return nil, false, fmt.Errorf("postings: fst lookup %q: %w", token, err)
	}
	if !exists {
		return nil, false, nil
	}
	if offset+codec.Uint64Size > uint64(len(r.data)) {
		return nil, false, fmt.Errorf("postings: offset %d out of range for token %q", offset, token)
	}
	payloadLen, err := codec.Uint64(r.data[offset:])
	if err != nil {
		return nil, false, fmt.Errorf("postings: read payload length for %q: %w", token, err)
	}
	start := offset + codec.Uint64Size
	end := start + payloadLen
	if end > uint64(len(r.data)) {
		return nil, false, fmt.Errorf("postings: payload for %q extends past end of data (offset %d, len %d)", token, start, payloadLen)
	}
	entries, err := codec.DecodeDocFreqMap(r.data[start:end])
	if err != nil {
		return nil, false, fmt.Errorf("postings: decode entries for %q: %w", token, err)
	}
	return entries, true, nil
}

// DocFrequency returns the number of distinct documents containing token.
func (r *Reader) DocFrequency(token string) (int, error) {
	entries, ok, err := r.Lookup(token)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return len(entries), nil
}
