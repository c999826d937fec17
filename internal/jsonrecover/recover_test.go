package jsonrecover_test

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerlens/internal/jsonrecover"
)

func TestRecover_DirectObject(t *testing.T) {
	res := jsonrecover.Recover(`  {"invoices":[],"products":[],"customers":[]}  `)

	require.True(t, res.OK())
	assert.Contains(t, res.Object, "invoices")
}

func TestRecover_ProseWrapped(t *testing.T) {
	text := `Here is the data:
{"invoices":[{"invoiceNumber":"INV-1"}],"products":[],"customers":[]}
Thanks!`

	res := jsonrecover.Recover(text)

	require.True(t, res.OK())
	invoices, ok := res.Object["invoices"].([]any)
	require.True(t, ok)
	assert.Len(t, invoices, 1)
}

func TestRecover_MarkdownFence(t *testing.T) {
	text := "```json\n{\"name\": \"Acme\"}\n```"

	res := jsonrecover.Recover(text)

	require.True(t, res.OK())
	assert.Equal(t, "Acme", res.Object["name"])
}

func TestRecover_TwoObjectsSeparatedByProse(t *testing.T) {
	text := `first {"a": 1} and then {"b": 2}`

	res := jsonrecover.Recover(text)

	require.True(t, res.OK())
	assert.Equal(t, float64(1), res.Object["a"])
}

func TestRecover_BraceInsideString(t *testing.T) {
	text := `note {"desc": "curly } brace", "n": 3} trailing } junk`

	res := jsonrecover.Recover(text)

	require.True(t, res.OK())
	assert.Equal(t, "curly } brace", res.Object["desc"])
}

func TestRecover_SkipsBrokenCandidate(t *testing.T) {
	text := `{broken: yes} then {"ok": true}`

	res := jsonrecover.Recover(text)

	require.True(t, res.OK())
	assert.Equal(t, true, res.Object["ok"])
}

func TestRecover_NoBraces(t *testing.T) {
	res := jsonrecover.Recover("I could not find any invoices in this document.")

	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, jsonrecover.ErrNoJSONObject)
	assert.Equal(t, "I could not find any invoices in this document.", res.Raw)
}

func TestRecover_Malformed(t *testing.T) {
	res := jsonrecover.Recover(`{"invoices": [1, 2,}`)

	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, jsonrecover.ErrMalformedJSON)
}

func TestRecover_NonObjectJSONIsFailure(t *testing.T) {
	res := jsonrecover.Recover(`[1, 2, 3]`)

	assert.False(t, res.OK())
}

func TestRecover_NullIsFailure(t *testing.T) {
	res := jsonrecover.Recover(`null`)

	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, jsonrecover.ErrNoJSONObject)
}

func TestRecover_Empty(t *testing.T) {
	res := jsonrecover.Recover("")

	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, jsonrecover.ErrNoJSONObject)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", jsonrecover.Preview("abc", 5))
	assert.Equal(t, "ab...", jsonrecover.Preview("abcdef", 2))
}

func TestPreview_KeepsMultibyteRunesWhole(t *testing.T) {
	// "é" is two bytes and "€" three; a cut inside either backs off to its start.
	got := jsonrecover.Preview("aé€b", 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))

	got = jsonrecover.Preview("aé€b", 5)
	assert.Equal(t, "aé...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "aé€...", jsonrecover.Preview("aé€b", 6))
}
