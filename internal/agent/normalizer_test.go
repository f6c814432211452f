package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealth-advisor/internal/common/logger"
)

func newTestNormalizer(t *testing.T, strict bool) *Normalizer {
	return NewNormalizer(strict, logger.NewTestLogger(t))
}

func TestNormalize_FencedJSONBlock(t *testing.T) {
	n := newTestNormalizer(t, false)

	output := "Here is the result.\n```json\n{\"type\": \"text\", \"data\": \"Virat Kohli has a Medium risk appetite.\"}\n```\nDone."
	envelope := n.Normalize(output)

	assert.Equal(t, "text", envelope["type"])
	assert.Equal(t, "Virat Kohli has a Medium risk appetite.", envelope["data"])
}

func TestNormalize_FencedBlockPreferredOverStrayBraces(t *testing.T) {
	n := newTestNormalizer(t, false)

	output := "prefix {stray} ```json\n{\"type\": \"text\", \"data\": \"ok\"}\n``` suffix"
	envelope := n.Normalize(output)

	assert.Equal(t, "text", envelope["type"])
	assert.Equal(t, "ok", envelope["data"])
}

func TestNormalize_BraceFallback(t *testing.T) {
	n := newTestNormalizer(t, false)

	output := `The final answer is {"type": "table", "data": [{"name": "Shah Rukh Khan"}]} as requested.`
	envelope := n.Normalize(output)

	assert.Equal(t, "table", envelope["type"])
	data, ok := envelope["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
	assert.Equal(t, map[string]interface{}{"name": "Shah Rukh Khan"}, data[0])
}

func TestNormalize_NoJSONAtAll(t *testing.T) {
	n := newTestNormalizer(t, false)

	envelope := n.Normalize("I could not find anything useful.")

	assert.Equal(t, "error", envelope["type"])
	assert.Equal(t, "The model did not return a valid JSON response.", envelope["data"])
	assert.NotContains(t, envelope, "raw_output")
}

func TestNormalize_MalformedJSON(t *testing.T) {
	n := newTestNormalizer(t, false)

	output := "Final Answer: {not valid json}"
	envelope := n.Normalize(output)

	assert.Equal(t, "error", envelope["type"])
	assert.Equal(t, "Failed to decode the JSON response from the model.", envelope["data"])
	assert.Equal(t, output, envelope["raw_output"])
}

func TestNormalize_DefaultModePassesThroughForeignShapes(t *testing.T) {
	n := newTestNormalizer(t, false)

	// Parseable JSON without type/data passes through untouched by default.
	envelope := n.Normalize(`{"answer": 42}`)

	assert.Equal(t, float64(42), envelope["answer"])
	assert.NotContains(t, envelope, "type")
}

func TestNormalize_StrictModeCoercesForeignShapes(t *testing.T) {
	n := newTestNormalizer(t, true)

	envelope := n.Normalize(`{"answer": 42}`)

	assert.Equal(t, "error", envelope["type"])
	assert.Contains(t, envelope["data"], "does not match the expected envelope")
}

func TestNormalize_StrictModeAcceptsValidEnvelopes(t *testing.T) {
	n := newTestNormalizer(t, true)

	tests := []struct {
		payload  string
		wantType string
	}{
		{`{"type": "text", "data": "hello"}`, "text"},
		{`{"type": "table", "data": [{"a": 1}]}`, "table"},
		{`{"type": "chart", "data": [{"name": "RM01", "value": 100}]}`, "chart"},
		{`{"type": "error", "data": "boom"}`, "error"},
	}
	for _, tt := range tests {
		envelope := n.Normalize(tt.payload)
		assert.Equal(t, tt.wantType, envelope["type"], "payload %s", tt.payload)
		assert.Contains(t, envelope, "data")
		assert.NotContains(t, envelope, "raw_output")
	}
}

func TestNormalize_StrictModeRejectsUnknownType(t *testing.T) {
	n := newTestNormalizer(t, true)

	envelope := n.Normalize(`{"type": "image", "data": "x"}`)
	assert.Equal(t, "error", envelope["type"])
}

func TestExtractJSON_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced with surrounding prose", "x ```json {\"a\":1} ``` y", `{"a":1}`},
		{"braces only", `noise {"a":1} noise`, `{"a":1}`},
		{"nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"no braces", "nothing here", ""},
		{"close before open", "} {", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.output))
		})
	}
}
