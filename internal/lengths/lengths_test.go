package lengths

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderSetAndWrite(t *testing.T) {
	b := NewBuilder()
	b.Set("doc-1", 10)
	b.Set("doc-2", 5)

	require.Equal(t, uint64(15), b.Sum())
	require.Equal(t, 2, b.DocCount())

	fstBytes, err := b.Write()
	require.NoError(t, err)

	r, err := OpenReader(fstBytes)
	require.NoError(t, err)
	defer r.Close()

	v, ok, err := r.Lookup("doc-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(10), v)

	_, ok, err = r.Lookup("doc-missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBuilderMergeDisjoint(t *testing.T) {
	a := NewBuilder()
	a.Set("doc-1", 10)

	b := NewBuilder()
	b.Set("doc-2", 20)

	a.Merge(b)
	require.Equal(t, 2, a.DocCount())
	require.Equal(t, uint64(30), a.Sum())
}
