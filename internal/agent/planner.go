package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/datapilot-ai/datapilot/internal/llm"
)

const plannerPrompt = "You are an expert systems designer.\n" +
	"Given the goal below, produce a numbered plan of 3-6 steps.\n\n" +
	"Goal:\n%s\n\nPlan:"

const expandPrompt = "You are a software engineer. Expand the plan step into detailed actions and commands.\n" +
	"Step:\n%s\n\nContext:\n%s\n\nDetailed expansion:"

const summarizePrompt = "You are an assistant that summarizes results. Produce a 3-sentence summary.\n\n" +
	"Results:\n%s\n\nSummary:"

// PlanResult is the terminal artifact of the plan/expand/summarize pipeline.
type PlanResult struct {
	Goal       string   `json:"goal"`
	Plan       []string `json:"plan"`
	Expansions []string `json:"expansions"`
	Summary    string   `json:"summary"`
}

// RunPlan drives plan -> expand each step -> summarize. Steps are expanded
// sequentially in plan order; expansions share only the read-only background
// string. Any oracle failure aborts the whole run.
func (a *Agent) RunPlan(ctx context.Context, goal, background string) (*PlanResult, error) {
	steps, err := a.plan(ctx, goal)
	if err != nil {
		return nil, err
	}
	slog.Info("plan produced", "steps", len(steps))

	expansions := make([]string, 0, len(steps))
	for _, step := range steps {
		expanded, err := a.expandStep(ctx, step, background)
		if err != nil {
			return nil, err
		}
		expansions = append(expansions, fmt.Sprintf("Step: %s\nExpansion:\n%s", step, expanded))
	}

	summary, err := a.summarize(ctx, strings.Join(expansions, "\n\n"))
	if err != nil {
		return nil, err
	}

	return &PlanResult{
		Goal:       goal,
		Plan:       steps,
		Expansions: expansions,
		Summary:    summary,
	}, nil
}

func (a *Agent) plan(ctx context.Context, goal string) ([]string, error) {
	text, err := a.llm.Complete(ctx, fmt.Sprintf(plannerPrompt, goal), llm.WithMaxTokens(300))
	if err != nil {
		return nil, fmt.Errorf("planning failed: %w", err)
	}
	return parsePlan(text), nil
}

func (a *Agent) expandStep(ctx context.Context, step, background string) (string, error) {
	text, err := a.llm.Complete(ctx, fmt.Sprintf(expandPrompt, step, background), llm.WithMaxTokens(600))
	if err != nil {
		return "", fmt.Errorf("expanding step %q failed: %w", step, err)
	}
	return strings.TrimSpace(text), nil
}

func (a *Agent) summarize(ctx context.Context, results string) (string, error) {
	text, err := a.llm.Complete(ctx, fmt.Sprintf(summarizePrompt, results),
		llm.WithMaxTokens(200), llm.WithTemperature(0.1))
	if err != nil {
		return "", fmt.Errorf("summarizing failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
