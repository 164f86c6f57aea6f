package docreader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestWalkReadsValidDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"docid":"doc-1","title":"Hello World","body":"some body text"}`)
	writeFile(t, dir, "b.json", `{"docid":"doc-2","title":"Second Doc"}`)

	fields := []FieldSpec{{DocField: "title", IndexKey: "title"}, {DocField: "body", IndexKey: "body"}}

	var got []Document
	err := Walk(dir, fields, nil, func(d Document) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "doc-1", got[0].DocID)
	require.Equal(t, "Hello World", got[0].Fields["title"])
	require.Equal(t, "some body text", got[0].Fields["body"])
	require.Equal(t, "doc-2", got[1].DocID)
	require.Equal(t, "", got[1].Fields["body"])
}

func TestWalkSkipsMissingDocID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"title":"no id here"}`)
	writeFile(t, dir, "b.json", `{"docid":"doc-1","title":"fine"}`)

	var got []Document
	err := Walk(dir, []FieldSpec{{DocField: "title", IndexKey: "title"}}, nil, func(d Document) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "doc-1", got[0].DocID)
}

func TestWalkSkipsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{not valid json`)
	writeFile(t, dir, "b.json", `{"docid":"doc-1"}`)

	var got []Document
	err := Walk(dir, nil, nil, func(d Document) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestWalkSkipsOversizeDocID(t *testing.T) {
	dir := t.TempDir()
	longID := strings.Repeat("x", 200)
	writeFile(t, dir, "a.json", `{"docid":"`+longID+`"}`)
	writeFile(t, dir, "b.json", `{"docid":"doc-1"}`)

	var got []Document
	err := Walk(dir, nil, nil, func(d Document) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "doc-1", got[0].DocID)
}
