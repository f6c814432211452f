package agent

import (
	"regexp"
	"strings"

	stderrors "wealth-advisor/internal/common/errors"
)

// Step is one parsed model turn: either a tool invocation or a final answer.
type Step struct {
	IsFinal   bool
	FinalText string
	Tool      string
	Input     string
}

var (
	actionRe = regexp.MustCompile(`(?m)^\s*Action\s*:\s*(.+?)\s*$`)
	// Action Input runs to the end of the turn; generation stops before any
	// Observation line, so multi-line SQL stays intact.
	actionInputRe = regexp.MustCompile(`(?s)Action\s*Input\s*:\s*(.*)\z`)
	finalAnswerRe = regexp.MustCompile(`(?s)Final\s*Answer\s*:\s*(.*)\z`)
)

// ParseStep classifies a model turn. Output that declares both an action and
// a final answer, or neither, is a protocol violation the loop recovers from
// by re-prompting.
func ParseStep(output string) (*Step, error) {
	hasAction := actionRe.MatchString(output)
	finalMatch := finalAnswerRe.FindStringSubmatch(output)

	switch {
	case hasAction && finalMatch != nil:
		return nil, stderrors.NewAgentProtocolViolationError(
			"output contains both an Action and a Final Answer")

	case finalMatch != nil:
		return &Step{IsFinal: true, FinalText: strings.TrimSpace(finalMatch[1])}, nil

	case hasAction:
		tool := cleanToolName(actionRe.FindStringSubmatch(output)[1])
		inputMatch := actionInputRe.FindStringSubmatch(output)
		if inputMatch == nil {
			return nil, stderrors.NewAgentProtocolViolationError(
				"Action line present but no Action Input")
		}
		return &Step{Tool: tool, Input: cleanActionInput(inputMatch[1])}, nil

	default:
		// A lone fenced JSON block is accepted as a final answer; some
		// models skip the "Final Answer:" label on the last turn.
		if strings.Contains(output, "```json") {
			return &Step{IsFinal: true, FinalText: strings.TrimSpace(output)}, nil
		}
		return nil, stderrors.NewAgentProtocolViolationError(
			"output contains neither an Action nor a Final Answer")
	}
}

// cleanToolName strips decoration models add around tool names.
func cleanToolName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, "`*[]\"'")
	return strings.TrimSpace(name)
}

// cleanActionInput strips surrounding quotes and code fences from the input.
func cleanActionInput(input string) string {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "```") {
		input = strings.TrimPrefix(input, "```sql")
		input = strings.TrimPrefix(input, "```json")
		input = strings.TrimPrefix(input, "```")
		input = strings.TrimSuffix(strings.TrimSpace(input), "```")
		input = strings.TrimSpace(input)
	}
	if len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"' {
		input = input[1 : len(input)-1]
	}
	return input
}
