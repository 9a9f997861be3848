package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/datapilot-ai/datapilot/apimodels"
	"github.com/datapilot-ai/datapilot/internal/warehouse/tools"
)

// Keyword intent detection, used when native tool calling is unavailable or
// failed. This is a documented stopgap: an ordered list of rules evaluated
// first-match-wins, each mapping a keyword family to a tool invocation.

const capabilityMessage = `I can help you explore your data warehouse. Try asking me to:
- list the available tables
- describe the structure of a table
- run a SQL query (for example: SELECT * FROM sales)
- create a chart from a query`

const chartClarification = `To create a chart I need an explicit SQL query. ` +
	`Please tell me which query to visualize, for example: ` +
	`"chart SELECT category, SUM(amount) FROM sales GROUP BY category".`

// Words that cannot be a table name when guessing one from the goal text.
var tableStopWords = map[string]bool{
	"describe": true, "table": true, "structure": true, "columns": true,
	"column": true, "schema": true, "of": true, "the": true, "show": true,
	"me": true, "my": true, "a": true, "an": true, "what": true, "is": true,
	"are": true, "in": true, "for": true, "please": true, "tell": true,
	"about": true, "list": true,
}

type fallbackRule struct {
	name string
	run  func(ctx context.Context, a *Agent, goal string) (string, bool)
}

var fallbackRules = []fallbackRule{
	{
		name: "list_tables",
		run: func(ctx context.Context, a *Agent, goal string) (string, bool) {
			if !goalHasAny(goal, "list", "show", "available") {
				return "", false
			}
			return a.tools.ListTables(ctx, tools.ListTablesArgs{}), true
		},
	},
	{
		name: "describe_table",
		run: func(ctx context.Context, a *Agent, goal string) (string, bool) {
			if !goalHasAny(goal, "describe", "structure", "columns", "schema") {
				return "", false
			}
			table := guessTableName(goal)
			if table == "" {
				return "Which table would you like me to describe? Ask me to list the tables if you're not sure of the name.", true
			}
			return a.tools.DescribeTable(ctx, tools.DescribeTableArgs{TableName: table}), true
		},
	},
	{
		name: "count_rows",
		run: func(ctx context.Context, a *Agent, goal string) (string, bool) {
			if !goalHasAny(goal, "count", "total", "number") {
				return "", false
			}
			table := matchKnownTable(ctx, a, goal)
			if table == "" {
				return "", false
			}
			query := fmt.Sprintf("SELECT COUNT(*) AS total FROM %s", a.tools.QualifiedName(table))
			return a.tools.ExecuteSQLQuery(ctx, tools.ExecuteSQLQueryArgs{Query: query}), true
		},
	},
	{
		name: "chart_clarification",
		run: func(ctx context.Context, a *Agent, goal string) (string, bool) {
			if !goalHasAny(goal, "chart", "graph", "visualize", "plot") {
				return "", false
			}
			return chartClarification, true
		},
	},
	{
		name: "capabilities",
		run: func(ctx context.Context, a *Agent, goal string) (string, bool) {
			return capabilityMessage, true
		},
	},
}

// fallback classifies the goal by keyword family and answers with a direct
// tool invocation. Every branch reports success; only a missing tool
// provider makes the whole request fail.
func (a *Agent) fallback(ctx context.Context, goal string) *apimodels.AskResponse {
	if a.tools == nil {
		return &apimodels.AskResponse{
			Response: "I couldn't reach the language model and the data warehouse connection is not configured, so I cannot answer right now. Please check the DATABRICKS_HOST, DATABRICKS_TOKEN, and DATABRICKS_HTTP_PATH settings.",
			Status:   apimodels.StatusError,
		}
	}

	for _, rule := range fallbackRules {
		out, ok := rule.run(ctx, a, goal)
		if !ok {
			continue
		}
		slog.Info("heuristic fallback matched", "rule", rule.name)
		return &apimodels.AskResponse{
			Response:  out,
			GraphData: extractChart(out, goal),
			Status:    apimodels.StatusSuccess,
		}
	}

	// unreachable: the capabilities rule always matches
	return &apimodels.AskResponse{Response: capabilityMessage, Status: apimodels.StatusSuccess}
}

func goalHasAny(goal string, words ...string) bool {
	g := strings.ToLower(goal)
	for _, w := range words {
		if strings.Contains(g, w) {
			return true
		}
	}
	return false
}

// guessTableName picks the first goal token that isn't a stop-word. Naive,
// but good enough for goals like "describe structure of users".
func guessTableName(goal string) string {
	for _, token := range tokenize(goal) {
		if !tableStopWords[token] {
			return token
		}
	}
	return ""
}

// matchKnownTable returns the first goal token that names a live table.
func matchKnownTable(ctx context.Context, a *Agent, goal string) string {
	names, err := a.tools.TableNames(ctx)
	if err != nil {
		slog.Warn("failed to fetch table names for count heuristic", "error", err)
		return ""
	}

	known := make(map[string]string, len(names))
	for _, n := range names {
		known[strings.ToLower(n)] = n
	}
	for _, token := range tokenize(goal) {
		if name, ok := known[token]; ok {
			return name
		}
	}
	return ""
}

func tokenize(goal string) []string {
	return strings.FieldsFunc(strings.ToLower(goal), func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
