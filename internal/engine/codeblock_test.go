package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLastCodeBlock_SingleBlock(t *testing.T) {
	code, ok := ExtractLastCodeBlock("here you go:\n```js\nFINAL(1)\n```\n")
	require.True(t, ok)
	require.Equal(t, "FINAL(1)\n", code)
}

func TestExtractLastCodeBlock_LastOfMultipleWins(t *testing.T) {
	content := "```js\nFINAL(\"first\")\n```\nactually:\n```js\nFINAL(\"second\")\n```"
	code, ok := ExtractLastCodeBlock(content)
	require.True(t, ok)
	require.Equal(t, "FINAL(\"second\")\n", code)
}

func TestExtractLastCodeBlock_NoFence(t *testing.T) {
	_, ok := ExtractLastCodeBlock("just thinking out loud, no code here")
	require.False(t, ok)
}

func TestExtractLastCodeBlock_NoLanguageTag(t *testing.T) {
	code, ok := ExtractLastCodeBlock("```\nFINAL(1)\n```")
	require.True(t, ok)
	require.Equal(t, "FINAL(1)\n", code)
}
