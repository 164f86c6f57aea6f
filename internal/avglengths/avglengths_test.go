package avglengths

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderWriteAndLookup(t *testing.T) {
	b := NewBuilder()
	b.Add("title", 100, 10) // avg 10
	b.Add("body", 500, 20)  // avg 25

	fstBytes, err := b.Write()
	require.NoError(t, err)

	r, err := OpenReader(fstBytes)
	require.NoError(t, err)
	defer r.Close()

	avg, ok, err := r.Lookup("title")
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 10.0, avg, 1e-9)

	avg, ok, err = r.Lookup("body")
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 25.0, avg, 1e-9)

	_, ok, err = r.Lookup("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBuilderZeroDocCount(t *testing.T) {
	b := NewBuilder()
	b.Add("empty", 0, 0)

	fstBytes, err := b.Write()
	require.NoError(t, err)
	r, err := OpenReader(fstBytes)
	require.NoError(t, err)
	defer r.Close()

	avg, ok, err := r.Lookup("empty")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0.0, avg)
}
