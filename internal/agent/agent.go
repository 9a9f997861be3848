// Package agent orchestrates language-model calls and warehouse tool
// invocations into a single structured answer per request.
package agent

import (
	"context"
	"errors"
	"log/slog"

	"github.com/datapilot-ai/datapilot/apimodels"
	"github.com/datapilot-ai/datapilot/internal/config"
	"github.com/datapilot-ai/datapilot/internal/llm"
	"github.com/datapilot-ai/datapilot/internal/warehouse/tools"
)

const PipelinePlan = "plan"

var errToolCallingUnavailable = errors.New("tool calling is not available on this provider")

var chatSystemPrompt = `You are datapilot, an AI data analyst with live access to a Databricks SQL warehouse.
You have access to the following tools:
- list_tables: list the tables available in a catalog and schema
- describe_table: show the columns and types of a table
- execute_sql_query: run a SQL query and return the results as text
- execute_query_for_chart: run a SQL query and return chart-ready JSON

Use the tools to ground your answers in real data instead of guessing.
When the user asks for a chart or graph, use execute_query_for_chart and include its JSON output in your reply.
Answer concisely and in plain language.`

type Agent struct {
	llm   llm.Provider
	tools *tools.Provider
	cfg   config.AgentConfig
}

func New(llmProvider llm.Provider, toolProvider *tools.Provider, cfg config.AgentConfig) *Agent {
	return &Agent{
		llm:   llmProvider,
		tools: toolProvider,
		cfg:   cfg,
	}
}

// Ask runs one orchestration cycle for a goal. In the plan pipeline any
// oracle failure is fatal for the request; in the chat pipeline failures
// degrade to the heuristic fallback and the returned error is always nil.
func (a *Agent) Ask(ctx context.Context, goal string) (*apimodels.AskResponse, error) {
	slog.Info("starting orchestration", "pipeline", a.cfg.Pipeline, "goal", goal)

	if a.cfg.Pipeline == PipelinePlan {
		out, err := a.RunPlan(ctx, goal, a.cfg.Context)
		if err != nil {
			return nil, err
		}
		return &apimodels.AskResponse{
			Response: out.Summary,
			Status:   apimodels.StatusSuccess,
		}, nil
	}

	return a.runChat(ctx, goal), nil
}

func (a *Agent) runChat(ctx context.Context, goal string) *apimodels.AskResponse {
	resp, err := a.chatWithTools(ctx, goal)
	if err != nil {
		slog.Warn("tool-calling chat failed, using heuristic fallback", "error", err)
		return a.fallback(ctx, goal)
	}
	return resp
}

func (a *Agent) chatWithTools(ctx context.Context, goal string) (*apimodels.AskResponse, error) {
	if !a.llm.SupportsTools() {
		return nil, errToolCallingUnavailable
	}

	llmResp, err := a.llm.Chat(ctx, chatSystemPrompt, goal, llm.WithTools(tools.Definitions()))
	if err != nil {
		return nil, err
	}

	text := llmResp.Content
	if llmResp.FunctionCall != nil {
		slog.Info("model requested tool call", "tool", llmResp.FunctionCall.Name)
		if a.tools == nil {
			return nil, errors.New("tool provider unavailable")
		}
		out, err := a.tools.Invoke(ctx, llmResp.FunctionCall.Name, []byte(llmResp.FunctionCall.Arguments))
		if err != nil {
			return nil, err
		}
		text = out
	}

	return &apimodels.AskResponse{
		Response:  text,
		GraphData: extractChart(text, goal),
		Status:    apimodels.StatusSuccess,
	}, nil
}
