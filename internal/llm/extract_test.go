package llm

import (
	"testing"

	"github.com/GoPolymarket/yieldgate/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArrayJSONFence(t *testing.T) {
	text := "Here you go:\n```json\n[{\"name\":\"A\"},{\"name\":\"B\"}]\n```\nGood luck."
	got, err := ExtractArray(text)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].(map[string]any)["name"])
}

func TestExtractArrayGenericFence(t *testing.T) {
	got, err := ExtractArray("```\n[{\"name\":\"A\"}]\n```")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestExtractArrayBracketSpanInProse(t *testing.T) {
	text := `Sure! Based on the market, [{"name":"Lido","expectedAPY":"3.9%"}] should suit you.`
	got, err := ExtractArray(text)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lido", got[0].(map[string]any)["name"])
}

func TestExtractArrayNoBrackets(t *testing.T) {
	_, err := ExtractArray("I cannot help with that request.")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrProviderOutput))
}

func TestExtractArrayBrokenFenceFallsThrough(t *testing.T) {
	text := "```json\n{not json}\n```\nAlternatively: [{\"name\":\"X\"}]"
	got, err := ExtractArray(text)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "X", got[0].(map[string]any)["name"])
}

func TestExtractArrayRejectsObject(t *testing.T) {
	_, err := ExtractArray(`{"recommendations": "none"}`)
	assert.Error(t, err)
}
