package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "wealth-advisor/internal/common/errors"
)

func TestParseStep_Action(t *testing.T) {
	output := ` I need financial data, so I will query the database.
Action: query_financial_data
Action Input: SELECT name FROM clients WHERE rmId = 'RM01'`

	step, err := ParseStep(output)
	require.NoError(t, err)
	assert.False(t, step.IsFinal)
	assert.Equal(t, "query_financial_data", step.Tool)
	assert.Equal(t, "SELECT name FROM clients WHERE rmId = 'RM01'", step.Input)
}

func TestParseStep_ActionInputMultilineSQL(t *testing.T) {
	output := `I will join the two tables.
Action: query_financial_data
Action Input: SELECT T2.name, T1.quantity
FROM holdings AS T1
JOIN clients AS T2 ON T1.clientId = T2.clientId`

	step, err := ParseStep(output)
	require.NoError(t, err)
	assert.Contains(t, step.Input, "JOIN clients AS T2")
}

func TestParseStep_StripsDecorationFromToolName(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"backticks", "Thought: profile needed\nAction: `get_client_profile_by_name`\nAction Input: \"Virat Kohli\""},
		{"brackets", "Thought: profile needed\nAction: [get_client_profile_by_name]\nAction Input: Virat Kohli"},
		{"quotes", "Thought: profile needed\nAction: \"get_client_profile_by_name\"\nAction Input: Virat Kohli"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, err := ParseStep(tt.output)
			require.NoError(t, err)
			assert.Equal(t, "get_client_profile_by_name", step.Tool)
			assert.Equal(t, "Virat Kohli", step.Input)
		})
	}
}

func TestParseStep_StripsCodeFenceFromInput(t *testing.T) {
	output := "Action: query_financial_data\nAction Input: ```sql\nSELECT * FROM holdings\n```"

	step, err := ParseStep(output)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM holdings", step.Input)
}

func TestParseStep_FinalAnswer(t *testing.T) {
	output := "I now know the answer.\nFinal Answer:\n```json\n{\"type\": \"text\", \"data\": \"Virat Kohli has a Medium risk appetite.\"}\n```"

	step, err := ParseStep(output)
	require.NoError(t, err)
	assert.True(t, step.IsFinal)
	assert.Contains(t, step.FinalText, `"type": "text"`)
}

func TestParseStep_BareFencedJSONIsFinal(t *testing.T) {
	output := "```json\n{\"type\": \"text\", \"data\": \"done\"}\n```"

	step, err := ParseStep(output)
	require.NoError(t, err)
	assert.True(t, step.IsFinal)
}

func TestParseStep_BothActionAndFinalIsViolation(t *testing.T) {
	output := "Action: query_financial_data\nAction Input: SELECT 1\nFinal Answer: {\"type\":\"text\",\"data\":\"x\"}"

	_, err := ParseStep(output)
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeAgentProtocolViolation, stdErr.Code)
}

func TestParseStep_FreeTextIsViolation(t *testing.T) {
	_, err := ParseStep("The answer is probably 42, but I am not sure.")
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeAgentProtocolViolation, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
