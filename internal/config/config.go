// Package config defines the per-field index configuration: which document
// fields get indexed, what index-internal key they are stored under, and
// the BM25F tuning parameters (weight, k1, b) each one scores with.
//
// This is a deliberately trimmed descendant of the teacher's schema
// package: no storage flags, no positional-index flag, no multi-valued
// keyword arrays, and no analyzer selection — all of those encode teacher
// features (stored fields, phrase queries, keyword arrays) that are out of
// scope here, where every text field is tokenized with the same contract
// and scored with the same formula.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Default BM25F parameters, matching the values the teacher's scorer ships
// (github.com/Khanh-21522203/GoSearch's internal/scoring.DefaultK1/DefaultB),
// which are themselves the values from Robertson & Zaragoza's BM25
// reference paper.
const (
	DefaultK1     = 1.2
	DefaultB      = 0.75
	DefaultWeight = 1.0
)

var (
	// ErrNoFields is returned when a Config has no fields configured.
	ErrNoFields = errors.New("config: at least one field must be configured")
	// ErrDuplicateIndexKey is returned when two fields share an index key.
	ErrDuplicateIndexKey = errors.New("config: duplicate index key")
	// ErrEmptyDocField is returned when a field's source document key is empty.
	ErrEmptyDocField = errors.New("config: doc field name must not be empty")
	// ErrEmptyIndexKey is returned when a field's index key is empty.
	ErrEmptyIndexKey = errors.New("config: index key must not be empty")
)

// Field describes one indexed field: the JSON key to read from a source
// document (DocField) and the key it is stored under inside the index
// (IndexKey) — distinct so a document field can be renamed on ingest.
type Field struct {
	DocField string  `json:"doc_field"`
	IndexKey string  `json:"index_key"`
	Weight   float64 `json:"weight"`
	K1       float64 `json:"k1"`
	B        float64 `json:"b"`
}

// Config is the full set of fields an index build or query operates over.
type Config struct {
	Fields []Field `json:"fields"`
}

// Validate checks the configuration for correctness: at least one field,
// no empty names, and no duplicate index keys.
func (c *Config) Validate() error {
	if len(c.Fields) == 0 {
		return ErrNoFields
	}
	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f.DocField == "" {
			return ErrEmptyDocField
		}
		if f.IndexKey == "" {
			return ErrEmptyIndexKey
		}
		if seen[f.IndexKey] {
			return fmt.Errorf("%w: %q", ErrDuplicateIndexKey, f.IndexKey)
		}
		seen[f.IndexKey] = true
	}
	return nil
}

// IndexKeys returns the index keys of every configured field, in
// configuration order.
func (c *Config) IndexKeys() []string {
	keys := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		keys[i] = f.IndexKey
	}
	return keys
}

// ByIndexKey returns the Field for the given index key, or false if not
// configured.
func (c *Config) ByIndexKey(key string) (Field, bool) {
	for _, f := range c.Fields {
		if f.IndexKey == key {
			return f, true
		}
	}
	return Field{}, false
}

// ParseField parses one --field flag value of the form
// "doc_field=index_key[:weight:k1:b]". The weight/k1/b suffix is optional;
// omitted or empty components are left at zero and filled in later by
// WithDefaults.
func ParseField(s string) (Field, error) {
	docField, rest, ok := strings.Cut(s, "=")
	if !ok || docField == "" {
		return Field{}, fmt.Errorf("config: field %q must have the form doc_field=index_key[:weight:k1:b]", s)
	}

	parts := strings.Split(rest, ":")
	f := Field{DocField: docField, IndexKey: parts[0]}
	if f.IndexKey == "" {
		return Field{}, fmt.Errorf("config: field %q is missing an index key", s)
	}

	nums := make([]float64, 0, 3)
	for _, p := range parts[1:] {
		if p == "" {
			nums = append(nums, 0)
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Field{}, fmt.Errorf("config: field %q has a non-numeric weight/k1/b component: %w", s, err)
		}
		nums = append(nums, v)
	}
	if len(nums) > 3 {
		return Field{}, fmt.Errorf("config: field %q has too many weight/k1/b components", s)
	}
	if len(nums) > 0 {
		f.Weight = nums[0]
	}
	if len(nums) > 1 {
		f.K1 = nums[1]
	}
	if len(nums) > 2 {
		f.B = nums[2]
	}
	return f, nil
}

// WithDefaults fills in zero-valued BM25F parameters on each field with the
// package defaults, returning a new Config (the receiver is left
// unmodified).
func (c *Config) WithDefaults() Config {
	out := Config{Fields: make([]Field, len(c.Fields))}
	for i, f := range c.Fields {
		if f.Weight == 0 {
			f.Weight = DefaultWeight
		}
		if f.K1 == 0 {
			f.K1 = DefaultK1
		}
		if f.B == 0 {
			f.B = DefaultB
		}
		out.Fields[i] = f
	}
	return out
}
