package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRequiresFields(t *testing.T) {
	c := &Config{}
	require.ErrorIs(t, c.Validate(), ErrNoFields)
}

func TestValidateRejectsDuplicateIndexKey(t *testing.T) {
	c := &Config{Fields: []Field{
		{DocField: "title", IndexKey: "text"},
		{DocField: "body", IndexKey: "text"},
	}}
	require.ErrorIs(t, c.Validate(), ErrDuplicateIndexKey)
}

func TestValidateRejectsEmptyNames(t *testing.T) {
	c := &Config{Fields: []Field{{DocField: "", IndexKey: "text"}}}
	require.ErrorIs(t, c.Validate(), ErrEmptyDocField)

	c = &Config{Fields: []Field{{DocField: "title", IndexKey: ""}}}
	require.ErrorIs(t, c.Validate(), ErrEmptyIndexKey)
}

func TestByIndexKey(t *testing.T) {
	c := &Config{Fields: []Field{{DocField: "title", IndexKey: "t"}}}
	f, ok := c.ByIndexKey("t")
	require.True(t, ok)
	require.Equal(t, "title", f.DocField)

	_, ok = c.ByIndexKey("missing")
	require.False(t, ok)
}

func TestWithDefaults(t *testing.T) {
	c := Config{Fields: []Field{{DocField: "title", IndexKey: "t", Weight: 2.0}}}
	out := c.WithDefaults()
	require.Equal(t, 2.0, out.Fields[0].Weight)
	require.Equal(t, DefaultK1, out.Fields[0].K1)
	require.Equal(t, DefaultB, out.Fields[0].B)

	// receiver untouched
	require.Equal(t, 0.0, c.Fields[0].K1)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("title=t:2.0:1.5:0.8")
	require.NoError(t, err)
	require.Equal(t, Field{DocField: "title", IndexKey: "t", Weight: 2.0, K1: 1.5, B: 0.8}, f)
}

func TestParseFieldWithoutTuning(t *testing.T) {
	f, err := ParseField("body=b")
	require.NoError(t, err)
	require.Equal(t, Field{DocField: "body", IndexKey: "b"}, f)
}

func TestParseFieldRejectsMissingEquals(t *testing.T) {
	_, err := ParseField("title")
	require.Error(t, err)
}

func TestParseFieldRejectsBadNumber(t *testing.T) {
	_, err := ParseField("title=t:notanumber")
	require.Error(t, err)
}
