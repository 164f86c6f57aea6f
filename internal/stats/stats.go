// Package stats writes and reads the single index_stats.json file: the
// total document count and, per field, the total number of tokens indexed
// — the numbers the retriever needs for the n_docs/df IDF term and, via
// avglengths, the BM25F length normalization term.
//
// Grounded on the original implementation's indexing/stats.rs. Persisted
// as JSON (not the fixed-width binary codec the postings/lengths files
// use) because it is small, read once per retriever open, and the
// teacher's own index metadata (internal/index/schema.go) is JSON for the
// same reason: a human-readable, diffable summary file benefits from a
// self-describing format more than a tiny binary one would save.
package stats

import (
	"encoding/json"
	"fmt"
)

// Stats is the full set of corpus-level statistics needed at query time.
type Stats struct {
	NumDocs         uint64            `json:"num_docs"`
	TotalTokens     map[string]uint64 `json:"total_tokens"`
	AverageLengths  map[string]float64 `json:"average_lengths,omitempty"`
}

// Marshal serializes s as indented JSON.
func Marshal(s *Stats) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("stats: marshal: %w", err)
	}
	return data, nil
}

// Unmarshal parses Stats from JSON.
func Unmarshal(data []byte) (*Stats, error) {
	var s Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("stats: unmarshal: %w", err)
	}
	if s.TotalTokens == nil {
		s.TotalTokens = make(map[string]uint64)
	}
	return &s, nil
}
