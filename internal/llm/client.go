// Package llm wraps an OpenAI-compatible chat-completion endpoint behind a
// single text-completion call used by the agent loop.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"wealth-advisor/internal/common/config"
	stderrors "wealth-advisor/internal/common/errors"
	"wealth-advisor/internal/common/logger"
)

// Client talks to an OpenAI-compatible runtime (Ollama, vLLM, OpenAI).
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	maxRetries  int
	logger      logger.Logger
}

func NewClient(cfg config.LLMConfig, log logger.Logger) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	apiConfig.BaseURL = cfg.BaseURL
	apiConfig.HTTPClient = &http.Client{
		Timeout: config.GetDuration(cfg.Timeout),
	}

	return &Client{
		client:      openai.NewClientWithConfig(apiConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxRetries:  cfg.MaxRetries,
		logger:      log,
	}
}

// Complete sends a single-turn prompt and returns the raw model text.
// Generation halts at "Observation:" so the agent can inject real tool
// output instead of letting the model invent one.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Stop:        []string{"\nObservation:", "Observation:"},
	}

	var resp openai.ChatCompletionResponse
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Apply exponential backoff for retries
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", stderrors.NewLLMTimeoutError()
			}
		}

		resp, lastErr = c.client.CreateChatCompletion(ctx, req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return "", stderrors.NewLLMTimeoutError()
		}

		if lastErr == nil {
			break
		}

		c.logger.WithError(lastErr).Warn("llm completion attempt failed", map[string]interface{}{
			"attempt": attempt + 1,
			"model":   c.model,
		})
	}

	if lastErr != nil {
		return "", stderrors.NewLLMRequestFailedError(lastErr)
	}

	if len(resp.Choices) == 0 {
		return "", stderrors.NewLLMRequestFailedError(fmt.Errorf("no choices in response"))
	}

	return resp.Choices[0].Message.Content, nil
}
