package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64RoundTrip(t *testing.T) {
	b := PutUint64(nil, 123456789)
	v, err := Uint64(b)
	require.NoError(t, err)
	require.Equal(t, uint64(123456789), v)
}

func TestUint64ShortBuffer(t *testing.T) {
	_, err := Uint64([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestDocFreqMapRoundTrip(t *testing.T) {
	entries := []DocFreqEntry{
		{DocID: "doc-0001", Freq: 3},
		{DocID: "doc-0002", Freq: 1},
		{DocID: "doc-9999", Freq: 7},
	}
	encoded := EncodeDocFreqMap(entries)

	decoded, err := DecodeDocFreqMap(encoded)
	require.NoError(t, err)
	require.Equal(t, entries, decoded)
}

func TestDocFreqMapEmpty(t *testing.T) {
	encoded := EncodeDocFreqMap(nil)
	decoded, err := DecodeDocFreqMap(encoded)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestFloat64BitsRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1.5, 3.14159, -2.71828, 1e10} {
		bits := Float64ToBits(f)
		require.Equal(t, f, BitsToFloat64(bits))
	}
}

func TestTakeBytesTruncated(t *testing.T) {
	b := PutUint64(nil, 10) // claims 10 bytes but none follow
	_, _, err := TakeBytes(b)
	require.Error(t, err)
}
