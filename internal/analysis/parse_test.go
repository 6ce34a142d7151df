package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReplyExactJSON(t *testing.T) {
	result := ParseReply(`{"code": "x", "explanations": []}`)

	assert.Equal(t, "x", result.Code)
	assert.Len(t, result.Explanations, 0)
}

func TestParseReplyWrappedInProse(t *testing.T) {
	raw := "Here is the fix:\n```\n{\"code\": \"y\", \"explanations\": [{\"title\":\"t\",\"description\":\"d\"}]}\n```\nHope that helps!"

	result := ParseReply(raw)

	assert.Equal(t, "y", result.Code)
	require.Len(t, result.Explanations, 1)
	assert.Equal(t, "t", result.Explanations[0].Title)
	assert.Equal(t, "d", result.Explanations[0].Description)
}

func TestParseReplyNestedBracesInCode(t *testing.T) {
	raw := `{"code": "if (x) { y(); }", "explanations": [{"title": "t", "description": "d"}]}`

	result := ParseReply(raw)

	assert.Equal(t, "if (x) { y(); }", result.Code)
	require.Len(t, result.Explanations, 1)
}

func TestParseReplySkipsNonResultObjects(t *testing.T) {
	// The first balanced object is valid JSON but not a result; the scanner
	// must keep trying later candidates.
	raw := `metadata: {"tokens": 42} and the answer {"code": "z", "explanations": []} trailing }`

	result := ParseReply(raw)

	assert.Equal(t, "z", result.Code)
	assert.Len(t, result.Explanations, 0)
}

func TestParseReplyGreedySpanFallback(t *testing.T) {
	// A '}' inside a string value throws off the depth counter, so no
	// balanced candidate parses. The first-{ to last-} span still does.
	raw := `answer: {"code": "}", "explanations": []}`

	result := ParseReply(raw)

	assert.Equal(t, "}", result.Code)
	assert.Len(t, result.Explanations, 0)
}

func TestParseReplyFallback(t *testing.T) {
	result := ParseReply("no json here")

	assert.Contains(t, result.Code, "no json here")
	assert.Contains(t, result.Code, "Error parsing AI response")
	require.NotEmpty(t, result.Explanations)
	assert.Equal(t, "AI Response Error", result.Explanations[0].Title)
}

func TestParseReplyEmptyInput(t *testing.T) {
	result := ParseReply("")

	assert.NotNil(t, result)
	require.Len(t, result.Explanations, 1)
}

func TestParseReplyObjectMissingKeys(t *testing.T) {
	// A well-formed object without the result keys falls through to the
	// error-wrapping fallback.
	result := ParseReply(`{"foo": "bar"}`)

	assert.Contains(t, result.Code, `{"foo": "bar"}`)
	require.Len(t, result.Explanations, 1)
	assert.Equal(t, "AI Response Error", result.Explanations[0].Title)
}

func TestParseReplyWrongTypes(t *testing.T) {
	result := ParseReply(`{"code": 5, "explanations": []}`)

	assert.Contains(t, result.Code, "Error parsing AI response")
}
