package docid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	buf, err := Normalize("doc-123")
	require.NoError(t, err)
	require.Equal(t, "doc-123", Denormalize(buf))
}

func TestNormalizeTooLong(t *testing.T) {
	raw := make([]byte, MaxLength+1)
	for i := range raw {
		raw[i] = 'a'
	}
	_, err := Normalize(string(raw))
	require.ErrorIs(t, err, ErrTooLong)
}

func TestNormalizeExactLength(t *testing.T) {
	raw := make([]byte, MaxLength)
	for i := range raw {
		raw[i] = 'x'
	}
	buf, err := Normalize(string(raw))
	require.NoError(t, err)
	require.Equal(t, string(raw), Denormalize(buf))
}

func TestDenormalizeBytes(t *testing.T) {
	buf := make([]byte, MaxLength)
	copy(buf, "doc-9")
	require.Equal(t, "doc-9", DenormalizeBytes(buf))
}
