package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	stderrors "wealth-advisor/internal/common/errors"
	"wealth-advisor/internal/common/logger"
	"wealth-advisor/internal/common/observability"
	"wealth-advisor/internal/store/profiles"
)

// ProfileFinder looks up client profile documents.
type ProfileFinder interface {
	FindOneByName(ctx context.Context, clientName string) (*profiles.Profile, error)
	FindByRiskAppetite(ctx context.Context, riskLevel string) ([]profiles.ClientRef, error)
}

// ClientProfileTool fetches one client's non-financial profile by exact
// name, case-insensitively.
type ClientProfileTool struct {
	finder ProfileFinder
	obs    *observability.Observability
	logger logger.Logger
}

func NewClientProfileTool(finder ProfileFinder, obs *observability.Observability, log logger.Logger) *ClientProfileTool {
	return &ClientProfileTool{finder: finder, obs: obs, logger: log}
}

func (t *ClientProfileTool) Name() string {
	return "get_client_profile_by_name"
}

func (t *ClientProfileTool) Description() string {
	return strings.TrimSpace(`
Use this tool to get NON-FINANCIAL profile information for a SINGLE, specific client by their full name.
This includes their address, risk appetite, and investment preferences.
The input MUST be the client's full name as a string.
Example Action Input: "Virat Kohli"`)
}

func (t *ClientProfileTool) Call(ctx context.Context, input string) (string, error) {
	clientName := strings.TrimSpace(input)
	if clientName == "" {
		return jsonError("A client_name string must be provided."), nil
	}

	start := time.Now()
	profile, err := t.finder.FindOneByName(ctx, clientName)
	if t.obs != nil {
		t.obs.RecordToolDuration(ctx, t.Name(), time.Since(start))
	}
	if err != nil {
		if stdErr, ok := err.(*stderrors.StandardError); ok && stdErr.Code == stderrors.ErrCodeProfileNotFound {
			return jsonError(fmt.Sprintf("Client profile for '%s' not found.", clientName)), nil
		}
		t.logger.WithError(err).Warn("profile lookup failed", map[string]interface{}{
			"tool": t.Name(),
		})
		return jsonError(fmt.Sprintf("Profile lookup failed: %s", errorDetail(err))), nil
	}

	doc, err := json.Marshal(profile)
	if err != nil {
		return jsonError("Profile could not be serialized."), nil
	}
	return string(doc), nil
}

// jsonError encodes a tool failure as a JSON error object string, the shape
// the agent prompt teaches the model to expect.
func jsonError(message string) string {
	doc, _ := json.Marshal(map[string]string{"error": message})
	return string(doc)
}

// errorDetail prefers the structured Details field when present.
func errorDetail(err error) string {
	if stdErr, ok := err.(*stderrors.StandardError); ok && stdErr.Details != "" {
		return stdErr.Details
	}
	return err.Error()
}
