package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapilot-ai/datapilot/apimodels"
	"github.com/datapilot-ai/datapilot/internal/agent"
	"github.com/datapilot-ai/datapilot/internal/config"
	"github.com/datapilot-ai/datapilot/internal/llm"
)

type stubLLM struct {
	completeErr error
}

func (s *stubLLM) Complete(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	if s.completeErr != nil {
		return "", s.completeErr
	}
	return "ok", nil
}

func (s *stubLLM) Chat(ctx context.Context, system, user string, opts ...llm.Option) (*llm.Response, error) {
	return &llm.Response{Content: "ok"}, nil
}

func (s *stubLLM) SupportsTools() bool { return false }

func newTestServer(ag *agent.Agent) *Server {
	return New(config.Config{}, ag)
}

func postAsk(s *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestAskEmptyPromptRejected(t *testing.T) {
	ag := agent.New(&stubLLM{}, nil, config.AgentConfig{Pipeline: "chat"})

	rec := postAsk(newTestServer(ag), `{"prompt": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Prompt must be provided")
}

func TestAskInvalidJSONRejected(t *testing.T) {
	ag := agent.New(&stubLLM{}, nil, config.AgentConfig{Pipeline: "chat"})

	rec := postAsk(newTestServer(ag), `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskNilAgentFailsFast(t *testing.T) {
	rec := postAsk(newTestServer(nil), `{"prompt": "hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "agent is not initialized")
}

func TestAskAgentErrorReturns500WithCause(t *testing.T) {
	// plan pipeline propagates oracle failures, so a failing LLM makes
	// Ask return an error
	ag := agent.New(&stubLLM{completeErr: errors.New("oracle exploded")}, nil,
		config.AgentConfig{Pipeline: "plan"})

	rec := postAsk(newTestServer(ag), `{"prompt": "hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error:")
	assert.Contains(t, rec.Body.String(), "oracle exploded")
}

func TestAskOrchestrationErrorStillRides200(t *testing.T) {
	// chat pipeline without tool support and without a warehouse: the agent
	// answers with status "error", but the HTTP layer reports 200
	ag := agent.New(&stubLLM{}, nil, config.AgentConfig{Pipeline: "chat"})

	rec := postAsk(newTestServer(ag), `{"prompt": "list tables"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apimodels.AskResponse
	require.NoError(t, jsonDecode(rec, &resp))
	assert.Equal(t, apimodels.StatusError, resp.Status)
	assert.NotEmpty(t, resp.Response)
}

func TestAskIgnoresExtraRequestFields(t *testing.T) {
	ag := agent.New(&stubLLM{}, nil, config.AgentConfig{Pipeline: "chat"})

	body := `{"prompt": "hello", "file_content": "abc", "chat_history": [{"role": "user", "content": "hi"}]}`
	rec := postAsk(newTestServer(ag), body)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func jsonDecode(rec *httptest.ResponseRecorder, into any) error {
	return json.NewDecoder(rec.Body).Decode(into)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
