// Package agent implements the bounded reasoning loop that drives an LLM
// through Thought/Action/Observation turns until it produces a final answer.
package agent

import (
	"context"
	"fmt"
	"strings"

	"wealth-advisor/internal/common/config"
	stderrors "wealth-advisor/internal/common/errors"
	"wealth-advisor/internal/common/logger"
	"wealth-advisor/internal/common/observability"
	"wealth-advisor/internal/tools"
)

// Completer is the single LLM capability the loop needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Engine runs the reasoning loop for one question at a time. Steps are
// strictly sequential; there is no parallel tool fan-out.
type Engine struct {
	completer           Completer
	registry            *tools.Registry
	obs                 *observability.Observability
	logger              logger.Logger
	maxSteps            int
	maxProtocolRetries  int
	maxObservationChars int
}

func NewEngine(completer Completer, registry *tools.Registry, cfg config.AgentConfig, obs *observability.Observability, log logger.Logger) *Engine {
	return &Engine{
		completer:           completer,
		registry:            registry,
		obs:                 obs,
		logger:              log,
		maxSteps:            cfg.MaxSteps,
		maxProtocolRetries:  cfg.MaxProtocolRetries,
		maxObservationChars: cfg.MaxObservationChars,
	}
}

// Run answers one question and returns the model's raw final-answer text.
// Callers pass the result through the normalizer; errors returned here are
// loop-level failures (step ceiling, repeated protocol violations, LLM
// transport), not domain conditions.
func (e *Engine) Run(ctx context.Context, question string) (string, error) {
	var scratchpad strings.Builder
	protocolViolations := 0

	for step := 1; step <= e.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return "", stderrors.NewLLMTimeoutError()
		}

		prompt := BuildPrompt(e.registry, question, scratchpad.String())

		output, err := e.completer.Complete(ctx, prompt)
		if err != nil {
			e.recordIterations(ctx, step, "llm_error")
			return "", err
		}

		parsed, err := ParseStep(output)
		if err != nil {
			protocolViolations++
			e.logger.WithError(err).Warn("model output violated the reasoning format", map[string]interface{}{
				"step":       step,
				"violations": protocolViolations,
			})
			if protocolViolations > e.maxProtocolRetries {
				e.recordIterations(ctx, step, "protocol_failure")
				return "", err
			}
			// Feed the violation back as an observation so the model can
			// self-correct on the next turn.
			e.appendStep(&scratchpad, output,
				"Error: your previous response did not follow the required format. "+
					"Respond with 'Action:' and 'Action Input:' lines, or with 'Final Answer:' followed by the JSON block.")
			continue
		}

		if parsed.IsFinal {
			e.recordIterations(ctx, step, "final")
			e.logger.Info("agent reached a final answer", map[string]interface{}{
				"steps": step,
			})
			return parsed.FinalText, nil
		}

		observation := e.executeTool(ctx, parsed.Tool, parsed.Input)
		e.appendStep(&scratchpad, output, observation)
	}

	e.recordIterations(ctx, e.maxSteps, "step_limit")
	return "", stderrors.NewStepLimitExceededError(e.maxSteps)
}

// executeTool resolves and runs a tool, folding every failure into
// observation text so the loop never aborts on a bad tool call.
func (e *Engine) executeTool(ctx context.Context, name, input string) string {
	tool, ok := e.registry.Lookup(name)
	if !ok {
		e.logger.Warn("model requested an unknown tool", map[string]interface{}{
			"tool": name,
		})
		return fmt.Sprintf("Error: unknown tool '%s'. Available tools: %s.",
			name, strings.Join(e.registry.Names(), ", "))
	}

	observation, err := tool.Call(ctx, input)
	if err != nil {
		e.logger.WithError(err).Error("tool returned an internal error", map[string]interface{}{
			"tool": name,
		})
		return fmt.Sprintf("Error: tool '%s' failed: %v", name, err)
	}

	return e.truncate(observation)
}

// appendStep extends the scratchpad with one completed turn.
func (e *Engine) appendStep(scratchpad *strings.Builder, output, observation string) {
	scratchpad.WriteString(" ")
	scratchpad.WriteString(strings.TrimSpace(output))
	scratchpad.WriteString("\nObservation: ")
	scratchpad.WriteString(observation)
	scratchpad.WriteString("\nThought:")
}

func (e *Engine) truncate(s string) string {
	if e.maxObservationChars > 0 && len(s) > e.maxObservationChars {
		return s[:e.maxObservationChars] + "\n[observation truncated]"
	}
	return s
}

func (e *Engine) recordIterations(ctx context.Context, steps int, outcome string) {
	if e.obs != nil {
		e.obs.RecordAgentIterations(ctx, steps, outcome)
	}
}
