package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetRetryability(t *testing.T) {
	cause := errors.New("boom")

	assert.True(t, NewDatabaseConnectionFailedError(cause).Retryable)
	assert.True(t, NewLLMRequestFailedError(cause).Retryable)
	assert.True(t, NewLLMTimeoutError().Retryable)
	assert.True(t, NewAgentProtocolViolationError("x").Retryable)

	assert.False(t, NewQueryExecutionFailedError(cause).Retryable)
	assert.False(t, NewProfileNotFoundError("x").Retryable)
	assert.False(t, NewInvalidRiskLevelError("bogus").Retryable)
	assert.False(t, NewStepLimitExceededError(10).Retryable)
	assert.False(t, NewAnswerExtractionFailedError().Retryable)
	assert.False(t, NewAnswerDecodeFailedError(cause).Retryable)
}

func TestErrorFormat(t *testing.T) {
	err := NewStepLimitExceededError(10)
	assert.Equal(t, "StandardError[STEP_LIMIT_EXCEEDED]: Agent exceeded the maximum number of reasoning steps", err.Error())
	assert.Equal(t, "maxSteps: 10", err.Details)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "LOOKUP", GetErrorCategory(ErrCodeProfileNotFound))
	assert.Equal(t, "AGENT", GetErrorCategory(ErrCodeStepLimitExceeded))
	assert.Equal(t, "NORMALIZER", GetErrorCategory(ErrCodeAnswerDecodeFailed))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeLLMTimeout))
}

func TestRetryPolicy(t *testing.T) {
	assert.Equal(t, 3, GetRetryCount(ErrCodeLLMRequestFailed))
	assert.Equal(t, 2, GetRetryCount(ErrCodeLLMTimeout))
	assert.Equal(t, 0, GetRetryCount(ErrCodeProfileNotFound))
	assert.True(t, IsRetryableErrorCode(ErrCodeDatabaseConnectionFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidRiskLevel))
}
