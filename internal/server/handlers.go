package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/datapilot-ai/datapilot/apimodels"
)

// handleAsk is the single orchestration endpoint. The envelope is always
// well-formed JSON on 200; orchestration-level failures ride the status
// field, not the HTTP code.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req apimodels.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Prompt) == "" {
		slog.Warn("empty prompt received")
		http.Error(w, "Prompt must be provided", http.StatusBadRequest)
		return
	}

	slog.Info("received /ask request", "prompt", truncate(req.Prompt, 50))

	if s.agent == nil {
		slog.Error("ask request received before agent initialization")
		http.Error(w, "Internal server error: agent is not initialized", http.StatusInternalServerError)
		return
	}

	result, err := s.agent.Ask(r.Context(), req.Prompt)
	if err != nil {
		slog.Error("ask request failed", "error", err)
		http.Error(w, fmt.Sprintf("Internal server error: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
