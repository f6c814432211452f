package agent

import (
	"encoding/json"
	"regexp"
	"strings"

	"wealth-advisor/internal/common/logger"
	"wealth-advisor/internal/common/validation"
)

// Envelope is the normalized response payload. It stays a plain map because
// successfully parsed JSON passes through untouched in the default mode,
// whatever keys it carries.
type Envelope map[string]interface{}

const (
	extractionFailedMessage = "The model did not return a valid JSON response."
	decodeFailedMessage     = "Failed to decode the JSON response from the model."
)

var fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Normalizer turns raw model text into a response envelope.
type Normalizer struct {
	strict bool
	logger logger.Logger
}

// NewNormalizer creates a normalizer. With strict enabled, parsed payloads
// are additionally checked against the envelope schema and failures coerced
// to an error envelope; by default anything that parses passes through.
func NewNormalizer(strict bool, log logger.Logger) *Normalizer {
	return &Normalizer{strict: strict, logger: log}
}

// Normalize extracts and decodes the JSON payload from the model's final
// answer. It always returns an envelope; malformed output degrades to a
// type:error envelope rather than an error return.
func (n *Normalizer) Normalize(output string) Envelope {
	jsonStr := extractJSON(output)
	if jsonStr == "" {
		n.logger.Warn("could not extract JSON from model output", map[string]interface{}{
			"outputLength": len(output),
		})
		return Envelope{"type": "error", "data": extractionFailedMessage}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		n.logger.WithError(err).Warn("failed to decode model JSON", map[string]interface{}{
			"payloadLength": len(jsonStr),
		})
		// raw_output keeps the broken text available for diagnostics.
		return Envelope{"type": "error", "data": decodeFailedMessage, "raw_output": output}
	}

	if n.strict {
		result, err := validation.ValidateEnvelope(payload)
		if err != nil || !result.Valid {
			details := "envelope validation could not run"
			if result != nil {
				details = strings.Join(result.GetErrorMessages(), "; ")
			}
			n.logger.Warn("model payload failed envelope validation", map[string]interface{}{
				"details": details,
			})
			return Envelope{"type": "error", "data": "The model returned a response that does not match the expected envelope."}
		}
	}

	return Envelope(payload)
}

// extractJSON prefers a fenced json block; otherwise it falls back to the
// span from the first '{' to the last '}'. The fallback is a heuristic: it
// misfires on text containing stray braces, which the decode step then
// reports.
func extractJSON(output string) string {
	if match := fencedJSONRe.FindStringSubmatch(output); match != nil {
		return strings.TrimSpace(match[1])
	}

	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return output[start : end+1]
}
