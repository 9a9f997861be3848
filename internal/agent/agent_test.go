package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapilot-ai/datapilot/apimodels"
	"github.com/datapilot-ai/datapilot/internal/config"
	"github.com/datapilot-ai/datapilot/internal/llm"
	"github.com/datapilot-ai/datapilot/internal/warehouse"
	"github.com/datapilot-ai/datapilot/internal/warehouse/tools"
)

type fakeLLM struct {
	supportsTools bool
	completeFn    func(prompt string) (string, error)
	chatFn        func(system, user string) (*llm.Response, error)
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.completeFn(prompt)
}

func (f *fakeLLM) Chat(ctx context.Context, system, user string, opts ...llm.Option) (*llm.Response, error) {
	return f.chatFn(system, user)
}

func (f *fakeLLM) SupportsTools() bool { return f.supportsTools }

type fakeQuerier struct {
	queryFn func(query string) (*warehouse.Result, error)
	queries []string
}

func (f *fakeQuerier) Query(ctx context.Context, query string) (*warehouse.Result, error) {
	f.queries = append(f.queries, query)
	return f.queryFn(query)
}

func tableListResult(names ...string) *warehouse.Result {
	r := &warehouse.Result{Columns: []string{"database", "tableName", "isTemporary"}}
	for _, n := range names {
		r.Rows = append(r.Rows, []any{"default", n, false})
	}
	return r
}

func newTestAgent(l llm.Provider, q warehouse.Querier) *Agent {
	var p *tools.Provider
	if q != nil {
		p = tools.NewProvider(q, "default", "default")
	}
	return New(l, p, config.AgentConfig{Pipeline: "chat"})
}

func TestChatNativeToolCall(t *testing.T) {
	q := &fakeQuerier{queryFn: func(query string) (*warehouse.Result, error) {
		return tableListResult("users", "orders"), nil
	}}
	l := &fakeLLM{
		supportsTools: true,
		chatFn: func(system, user string) (*llm.Response, error) {
			return &llm.Response{FunctionCall: &llm.FunctionResponse{
				Name:      "list_tables",
				Arguments: "{}",
			}}, nil
		},
	}

	resp, err := newTestAgent(l, q).Ask(context.Background(), "what data do we have?")
	require.NoError(t, err)
	assert.Equal(t, apimodels.StatusSuccess, resp.Status)
	assert.Contains(t, resp.Response, "users")
	assert.Contains(t, resp.Response, "orders")
}

func TestChatPlainContentResponse(t *testing.T) {
	l := &fakeLLM{
		supportsTools: true,
		chatFn: func(system, user string) (*llm.Response, error) {
			return &llm.Response{Content: "You have two tables."}, nil
		},
	}

	resp, err := newTestAgent(l, &fakeQuerier{}).Ask(context.Background(), "what data do we have?")
	require.NoError(t, err)
	assert.Equal(t, apimodels.StatusSuccess, resp.Status)
	assert.Equal(t, "You have two tables.", resp.Response)
	assert.Nil(t, resp.GraphData)
}

func TestChatOracleErrorFallsBackToHeuristics(t *testing.T) {
	q := &fakeQuerier{queryFn: func(query string) (*warehouse.Result, error) {
		return tableListResult("users"), nil
	}}
	l := &fakeLLM{
		supportsTools: true,
		chatFn: func(system, user string) (*llm.Response, error) {
			return nil, errors.New("503 service unavailable")
		},
	}

	resp, err := newTestAgent(l, q).Ask(context.Background(), "list tables")
	require.NoError(t, err)
	assert.Equal(t, apimodels.StatusSuccess, resp.Status)
	assert.Contains(t, resp.Response, "users")
}

func TestChartExtractedFromToolOutput(t *testing.T) {
	q := &fakeQuerier{queryFn: func(query string) (*warehouse.Result, error) {
		return &warehouse.Result{
			Columns: []string{"category", "amount"},
			Rows:    [][]any{{"a", 1}, {"b", 2}},
		}, nil
	}}
	l := &fakeLLM{
		supportsTools: true,
		chatFn: func(system, user string) (*llm.Response, error) {
			return &llm.Response{FunctionCall: &llm.FunctionResponse{
				Name:      "execute_query_for_chart",
				Arguments: `{"query": "SELECT category, amount FROM sales"}`,
			}}, nil
		},
	}

	resp, err := newTestAgent(l, q).Ask(context.Background(), "chart sales by category")
	require.NoError(t, err)
	assert.Equal(t, apimodels.StatusSuccess, resp.Status)
	require.NotNil(t, resp.GraphData)
	chart := resp.GraphData.(map[string]interface{})
	assert.Equal(t, "bar", chart["type"])
}

func TestUnknownToolNameFallsBack(t *testing.T) {
	q := &fakeQuerier{queryFn: func(query string) (*warehouse.Result, error) {
		return tableListResult(), nil
	}}
	l := &fakeLLM{
		supportsTools: true,
		chatFn: func(system, user string) (*llm.Response, error) {
			return &llm.Response{FunctionCall: &llm.FunctionResponse{
				Name:      "drop_all_tables",
				Arguments: "{}",
			}}, nil
		},
	}

	resp, err := newTestAgent(l, q).Ask(context.Background(), "hello")
	require.NoError(t, err)
	// the unknown tool errors the native path; the default heuristic answers
	assert.Equal(t, apimodels.StatusSuccess, resp.Status)
	assert.Contains(t, resp.Response, "list the available tables")
}
