package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDF(t *testing.T) {
	require.Equal(t, 10.0, IDF(100, 10))
	require.Equal(t, 0.0, IDF(100, 0))
}

func TestFieldTermScoreZeroFreq(t *testing.T) {
	require.Equal(t, 0.0, FieldTermScore(FieldStats{TermFreq: 0}))
}

func TestFieldTermScorePositive(t *testing.T) {
	s := FieldTermScore(FieldStats{
		Weight: 1, K1: 1.2, B: 0.75,
		TermFreq: 3, DocLen: 50, AvgLen: 40,
	})
	require.Greater(t, s, 0.0)
}

// TestFieldTermScoreWeightedExample pins down the exact worked example from
// the field-weighted combined formula: weight=2, k1=1.2, b=0.75, tf=3,
// with a single matched field so dl_w(d) = weight*dl = 2*10 = 20 and
// wavg = weight*avgLen = 2*5 = 10.
func TestFieldTermScoreWeightedExample(t *testing.T) {
	s := FieldTermScore(FieldStats{
		Weight: 2, K1: 1.2, B: 0.75,
		TermFreq: 3, DocLen: 20, AvgLen: 5,
	})
	require.InDelta(t, 13.2/8.1, s, 1e-9)
}

func TestTermScoreSumsFields(t *testing.T) {
	fields := []FieldStats{
		{Weight: 1, K1: 1.2, B: 0.75, TermFreq: 2, DocLen: 10, AvgLen: 10},
		{Weight: 2, K1: 1.2, B: 0.75, TermFreq: 1, DocLen: 10, AvgLen: 10},
	}
	want := FieldTermScore(fields[0]) + FieldTermScore(fields[1])
	require.InDelta(t, 5*want, TermScore(5, fields), 1e-9)
}

func TestFieldTermScoreZeroAvgLen(t *testing.T) {
	s := FieldTermScore(FieldStats{Weight: 1, K1: 1.2, B: 0.75, TermFreq: 1, DocLen: 10, AvgLen: 0})
	require.Greater(t, s, 0.0)
}
