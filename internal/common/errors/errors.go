// Package errors provides standardized error handling for the query pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeProfileNotFound  ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeInvalidRiskLevel ErrorCode = "INVALID_RISK_LEVEL"

	ErrCodeToolExecutionFailed    ErrorCode = "TOOL_EXECUTION_FAILED"
	ErrCodeAgentProtocolViolation ErrorCode = "AGENT_PROTOCOL_VIOLATION"
	ErrCodeStepLimitExceeded      ErrorCode = "STEP_LIMIT_EXCEEDED"

	ErrCodeAnswerExtractionFailed ErrorCode = "ANSWER_EXTRACTION_FAILED"
	ErrCodeAnswerDecodeFailed     ErrorCode = "ANSWER_DECODE_FAILED"

	ErrCodeLLMTimeout       ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMRequestFailed ErrorCode = "LLM_REQUEST_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a non-retryable query execution error.
// SQL arrives from the model verbatim, so retrying the same statement cannot help.
func NewQueryExecutionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileNotFoundError creates a non-retryable profile lookup error.
func NewProfileNotFoundError(clientName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileNotFound,
		Message:   "Client profile not found",
		Details:   fmt.Sprintf("clientName: %s", clientName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRiskLevelError creates a non-retryable risk level validation error.
func NewInvalidRiskLevelError(riskLevel string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRiskLevel,
		Message:   "Risk level outside the allowed set",
		Details:   fmt.Sprintf("riskLevel: %s, allowed: High, Medium, Low", riskLevel),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewToolExecutionFailedError creates a non-retryable tool execution error.
func NewToolExecutionFailedError(toolName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeToolExecutionFailed,
		Message:   "Tool execution failed",
		Details:   fmt.Sprintf("tool: %s, error: %s", toolName, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentProtocolViolationError creates a retryable protocol violation error.
// The loop re-prompts the model with a corrective note, bounded by its retry ceiling.
func NewAgentProtocolViolationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentProtocolViolation,
		Message:   "Model output violated the expected reasoning format",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStepLimitExceededError creates a non-retryable step ceiling error.
func NewStepLimitExceededError(maxSteps int) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepLimitExceeded,
		Message:   "Agent exceeded the maximum number of reasoning steps",
		Details:   fmt.Sprintf("maxSteps: %d", maxSteps),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnswerExtractionFailedError creates a non-retryable extraction error.
func NewAnswerExtractionFailedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAnswerExtractionFailed,
		Message:   "No JSON payload found in the model's final answer",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnswerDecodeFailedError creates a non-retryable decode error.
func NewAnswerDecodeFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnswerDecodeFailed,
		Message:   "Failed to decode the JSON payload from the model's final answer",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM completion timeout",
		Details:   "completion call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMRequestFailedError creates a retryable LLM transport error.
func NewLLMRequestFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMRequestFailed,
		Message:   "LLM completion API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Policy
// ==========================

// GetRetryCount returns the recommended retry count per error class.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeLLMRequestFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout,
		ErrCodeLLMTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Domain errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "PROFILE") || strings.Contains(codeStr, "RISK"):
		return "LOOKUP"
	case strings.Contains(codeStr, "AGENT") || strings.Contains(codeStr, "STEP") || strings.Contains(codeStr, "TOOL"):
		return "AGENT"
	case strings.Contains(codeStr, "ANSWER"):
		return "NORMALIZER"
	case strings.Contains(codeStr, "LLM"):
		return "AI"
	default:
		return "OTHER"
	}
}
