package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bm25fts/internal/config"
	"bm25fts/internal/layout"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRunBuildsIndexFiles(t *testing.T) {
	docsDir := t.TempDir()
	outDir := t.TempDir()

	writeDoc(t, docsDir, "1.json", `{"docid":"doc-1","title":"the quick brown fox","body":"jumps over the lazy dog"}`)
	writeDoc(t, docsDir, "2.json", `{"docid":"doc-2","title":"the lazy dog sleeps","body":"all day long"}`)

	cfg := config.Config{Fields: []config.Field{
		{DocField: "title", IndexKey: "title"},
		{DocField: "body", IndexKey: "body"},
	}}

	result, err := Run(context.Background(), Options{
		DocsDir:    docsDir,
		OutDir:     outDir,
		Fields:     cfg,
		NumWorkers: 2,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(2), result.NumDocs)
	require.Greater(t, result.TotalTokens["title"], uint64(0))

	for _, key := range []string{"title", "body"} {
		require.FileExists(t, layout.PostingsFST(outDir, key))
		require.FileExists(t, layout.PostingsData(outDir, key))
		require.FileExists(t, layout.LengthsFST(outDir, key))
	}
	require.FileExists(t, layout.AvgLengths(outDir))
	require.FileExists(t, layout.Stats(outDir))
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	_, err := Run(context.Background(), Options{
		DocsDir: t.TempDir(),
		OutDir:  t.TempDir(),
		Fields:  config.Config{},
	})
	require.Error(t, err)
}

func TestRunSkipsInvalidDocuments(t *testing.T) {
	docsDir := t.TempDir()
	outDir := t.TempDir()

	writeDoc(t, docsDir, "1.json", `{"title":"missing docid"}`)
	writeDoc(t, docsDir, "2.json", `{"docid":"doc-1","title":"valid"}`)

	cfg := config.Config{Fields: []config.Field{{DocField: "title", IndexKey: "title"}}}
	result, err := Run(context.Background(), Options{DocsDir: docsDir, OutDir: outDir, Fields: cfg})
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.NumDocs)
}
