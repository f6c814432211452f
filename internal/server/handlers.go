package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Status": "API is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.pingers))
	ready := true
	for name, pinger := range s.pingers {
		if err := pinger.Ping(ctx); err != nil {
			checks[name] = err.Error()
			ready = false
		} else {
			checks[name] = "ok"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
}

// handleQuery runs the agent and normalizes its answer. Domain failures
// (unparseable model output) come back as HTTP 200 with a type:error
// envelope; loop and transport failures are HTTP 500.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body must be JSON with a 'question' field"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "'question' must be a non-empty string"})
		return
	}

	s.logger.Info("question received", map[string]interface{}{
		"questionLength": len(req.Question),
	})

	output, err := s.engine.Run(r.Context(), req.Question)
	if err != nil {
		s.logger.WithError(err).Error("agent run failed", nil)
		s.recordQuery(r.Context(), start, "internal_error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}

	envelope := s.normalizer.Normalize(output)

	status := "ok"
	if t, _ := envelope["type"].(string); t == "error" {
		status = "model_error"
	}
	s.recordQuery(r.Context(), start, status)

	writeJSON(w, http.StatusOK, envelope)
}

func (s *Server) recordQuery(ctx context.Context, start time.Time, status string) {
	if s.obs != nil {
		s.obs.RecordQueryProcessed(ctx, status)
		s.obs.RecordQueryDuration(ctx, time.Since(start), status)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
