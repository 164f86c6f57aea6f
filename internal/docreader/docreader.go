// Package docreader walks a directory of JSON document files and yields
// each document's DocID plus its configured field texts, skipping (without
// aborting the walk) any document that is malformed or carries an
// oversize DocID.
//
// Grounded on the original implementation's document_reader module, which
// walks a documents directory, requires a "docid" field on every document,
// and silently skips documents that fail validation rather than stopping
// the whole corpus load. Field extraction here uses gjson instead of
// encoding/json + map[string]any type assertions: documents are untyped
// JSON objects (no fixed Go struct fits every corpus), and gjson gives
// cheap, allocation-light access to one or two expected keys without
// requiring a full unmarshal.
package docreader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"bm25fts/internal/docid"
)

// Document is one successfully read, validated source document.
type Document struct {
	// DocID is the raw (not yet length-normalized) document identifier.
	DocID string
	// Fields maps index key -> raw field text, already looked up according
	// to the caller-supplied doc-field -> index-key mapping.
	Fields map[string]string
}

// FieldSpec is the minimal per-field information the reader needs: which
// JSON key to pull out of the document, and which index key to file it
// under.
type FieldSpec struct {
	DocField string
	IndexKey string
}

// Walk reads every *.json file directly inside dir (non-recursive, matching
// the flat documents/ directory the original implementation expects),
// extracts the configured fields plus "docid", and invokes fn for each
// valid document in file-name sorted order. Invalid documents are logged
// and skipped; fn is never called for them.
func Walk(dir string, fields []FieldSpec, logger *slog.Logger, fn func(Document) error) error {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("docreader: read dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("docreader: skipping unreadable file", "path", path, "error", err)
			continue
		}
		if !gjson.ValidBytes(data) {
			logger.Warn("docreader: skipping malformed JSON", "path", path)
			continue
		}

		root := gjson.ParseBytes(data)
		docIDResult := root.Get("docid")
		if !docIDResult.Exists() || docIDResult.Type != gjson.String {
			logger.Warn("docreader: skipping document missing docid field", "path", path)
			continue
		}
		rawID := docIDResult.String()
		if len(rawID) > docid.MaxLength {
			logger.Warn("docreader: skipping document with oversize docid",
				"path", path, "docid_length", len(rawID), "max", docid.MaxLength)
			continue
		}

		doc := Document{DocID: rawID, Fields: make(map[string]string, len(fields))}
		for _, f := range fields {
			v := root.Get(f.DocField)
			if v.Exists() && v.Type == gjson.String {
				doc.Fields[f.IndexKey] = v.String()
			}
		}

		if err := fn(doc); err != nil {
			return fmt.Errorf("docreader: process %s: %w", path, err)
		}
	}

	return nil
}
