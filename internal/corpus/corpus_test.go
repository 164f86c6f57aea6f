package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateWritesDocuments(t *testing.T) {
	dir := t.TempDir()
	err := Generate(Options{OutDir: dir, Count: 5, Seed: 1})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	require.Contains(t, string(data), `"docid"`)
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	err := Generate(Options{OutDir: t.TempDir(), Count: 0})
	require.Error(t, err)
}
