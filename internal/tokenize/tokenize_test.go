package tokenize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokensBasic(t *testing.T) {
	require.Equal(t, []string{"the", "quick", "fox2"}, Tokens("The Quick Fox2!"))
}

func TestTokensDropsEmpty(t *testing.T) {
	require.Equal(t, []string{"hello", "world"}, Tokens("hello --- world !!!"))
}

func TestTokensEmptyInput(t *testing.T) {
	require.Empty(t, Tokens(""))
	require.Empty(t, Tokens("   "))
}

func TestSplitKeepsEmptyTokens(t *testing.T) {
	out := Split("hello --- world")
	require.Equal(t, []string{"hello", "", "world"}, out)
}

func TestTokensUnicode(t *testing.T) {
	require.Equal(t, []string{"café", "日本語"}, Tokens("Café 日本語!"))
}
