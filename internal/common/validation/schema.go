package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// envelopeSchema describes the response envelope the agent must return.
// data is intentionally untyped: text carries a string, table an array of
// objects, chart an array of {name,value} points, error a message string.
const envelopeSchema = `{
	"type": "object",
	"properties": {
		"type": {
			"type": "string",
			"enum": ["text", "table", "chart", "error"]
		},
		"data": {}
	},
	"required": ["type", "data"]
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// ValidateEnvelope checks a decoded response payload against the envelope schema.
func ValidateEnvelope(payload map[string]interface{}) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewStringLoader(envelopeSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("envelope validation failed to run: %w", err)
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return vr, nil
}
