package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wealth-advisor/internal/common/logger"
	"wealth-advisor/internal/common/observability"
)

// allowed risk buckets, title-cased
var riskLevels = map[string]bool{
	"High":   true,
	"Medium": true,
	"Low":    true,
}

// RiskAppetiteTool lists clients in a risk bucket.
type RiskAppetiteTool struct {
	finder ProfileFinder
	obs    *observability.Observability
	logger logger.Logger
}

func NewRiskAppetiteTool(finder ProfileFinder, obs *observability.Observability, log logger.Logger) *RiskAppetiteTool {
	return &RiskAppetiteTool{finder: finder, obs: obs, logger: log}
}

func (t *RiskAppetiteTool) Name() string {
	return "find_clients_by_risk_appetite"
}

func (t *RiskAppetiteTool) Description() string {
	return strings.TrimSpace(`
Use this tool to find a list of clients who match a specific risk appetite.
The input MUST be one of 'High', 'Medium', or 'Low'.
Example Action Input: "High"`)
}

func (t *RiskAppetiteTool) Call(ctx context.Context, input string) (string, error) {
	riskLevel := titleCase(strings.TrimSpace(input))
	if !riskLevels[riskLevel] {
		return jsonError("risk_level must be one of 'High', 'Medium', or 'Low'."), nil
	}

	start := time.Now()
	refs, err := t.finder.FindByRiskAppetite(ctx, riskLevel)
	if t.obs != nil {
		t.obs.RecordToolDuration(ctx, t.Name(), time.Since(start))
	}
	if err != nil {
		t.logger.WithError(err).Warn("risk appetite lookup failed", map[string]interface{}{
			"tool": t.Name(),
		})
		return jsonError(fmt.Sprintf("Risk appetite lookup failed: %s", errorDetail(err))), nil
	}

	doc, err := json.Marshal(refs)
	if err != nil {
		return jsonError("Client list could not be serialized."), nil
	}
	return string(doc), nil
}

// titleCase upper-cases the first rune and lower-cases the rest, matching
// the closed High/Medium/Low set regardless of input casing.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
