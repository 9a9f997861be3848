// Package tools exposes warehouse operations as LLM-callable tools.
//
// Every operation in this package is a boundary: failures from the warehouse
// are caught and reported as explanatory text, never propagated, because the
// consumer is a language model that can only read natural language.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/datapilot-ai/datapilot/internal/warehouse"
)

const DefaultRowLimit = 100

var chartPalette = []string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0",
	"#9966FF", "#FF9F40", "#FF6384", "#C9CBCF",
}

// Provider executes the warehouse tool operations against a Querier using
// the configured default catalog and schema.
type Provider struct {
	q       warehouse.Querier
	catalog string
	schema  string
}

func NewProvider(q warehouse.Querier, catalog, schema string) *Provider {
	return &Provider{q: q, catalog: catalog, schema: schema}
}

type ListTablesArgs struct {
	Catalog string `json:"catalog,omitempty"`
	Schema  string `json:"schema,omitempty"`
}

type DescribeTableArgs struct {
	TableName string `json:"table_name"`
	Catalog   string `json:"catalog,omitempty"`
	Schema    string `json:"schema,omitempty"`
}

type ExecuteSQLQueryArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type ExecuteQueryForChartArgs struct {
	Query     string `json:"query"`
	ChartType string `json:"chart_type,omitempty"`
}

// ListTables enumerates the tables in the given (or default) catalog and
// schema as a bulleted text list.
func (p *Provider) ListTables(ctx context.Context, args ListTablesArgs) string {
	catalog := orDefault(args.Catalog, p.catalog)
	schema := orDefault(args.Schema, p.schema)

	result, err := p.q.Query(ctx, fmt.Sprintf("SHOW TABLES IN %s.%s", catalog, schema))
	if err != nil {
		return fmt.Sprintf("Error listing tables: %v", err)
	}

	if len(result.Rows) == 0 {
		return fmt.Sprintf("No tables found in %s.%s", catalog, schema)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Available tables in %s.%s:\n", catalog, schema)
	for _, row := range result.Rows {
		// SHOW TABLES rows come back as (database, tableName, isTemporary)
		name := cellString(row[0])
		if len(row) > 1 {
			name = cellString(row[1])
		}
		fmt.Fprintf(&sb, "- %s\n", name)
	}
	return sb.String()
}

// DescribeTable returns the column name/type/comment triples of one table.
func (p *Provider) DescribeTable(ctx context.Context, args DescribeTableArgs) string {
	catalog := orDefault(args.Catalog, p.catalog)
	schema := orDefault(args.Schema, p.schema)
	fqtn := fmt.Sprintf("%s.%s.%s", catalog, schema, args.TableName)

	result, err := p.q.Query(ctx, fmt.Sprintf("DESCRIBE TABLE %s", fqtn))
	if err != nil {
		return fmt.Sprintf("Error describing table %s: %v", args.TableName, err)
	}

	if len(result.Rows) == 0 {
		return fmt.Sprintf("Table %s not found or has no columns", fqtn)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Table structure for %s:\n", fqtn)
	sb.WriteString("Column Name | Data Type | Comment\n")
	sb.WriteString(strings.Repeat("-", 50) + "\n")
	for _, row := range result.Rows {
		name := cellString(row[0])
		colType := ""
		if len(row) > 1 {
			colType = cellString(row[1])
		}
		comment := ""
		if len(row) > 2 {
			comment = cellString(row[2])
		}
		fmt.Fprintf(&sb, "%s | %s | %s\n", name, colType, comment)
	}
	return sb.String()
}

// ExecuteSQLQuery runs a query and formats up to limit rows as an aligned
// text table. SELECTs without a LIMIT clause get one appended.
func (p *Provider) ExecuteSQLQuery(ctx context.Context, args ExecuteSQLQueryArgs) string {
	limit := args.Limit
	if limit <= 0 {
		limit = DefaultRowLimit
	}
	query := ensureLimit(args.Query, limit)

	result, err := p.q.Query(ctx, query)
	if err != nil {
		return classifyQueryError(err)
	}

	if len(result.Rows) == 0 {
		return "Query executed successfully, but no results were returned."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Query Results (%d rows):\n", len(result.Rows))

	cells := make([]string, len(result.Columns))
	for i, col := range result.Columns {
		cells[i] = fmt.Sprintf("%-15s", col)
	}
	header := strings.Join(cells, " | ")
	sb.WriteString(header + "\n")
	sb.WriteString(strings.Repeat("-", len(header)) + "\n")

	for _, row := range result.Rows {
		for i := range cells {
			cells[i] = ""
			if i < len(row) {
				cells[i] = fmt.Sprintf("%-15s", cellString(row[i]))
			}
		}
		sb.WriteString(strings.Join(cells, " | ") + "\n")
	}

	if len(result.Rows) >= limit {
		fmt.Fprintf(&sb, "\n(Showing first %d rows. Use LIMIT in your query to see more.)", limit)
	}
	return sb.String()
}

type ChartPayload struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label           string   `json:"label"`
	Data            []any    `json:"data"`
	BackgroundColor []string `json:"backgroundColor"`
}

type ChartOptions struct {
	Responsive bool         `json:"responsive"`
	Plugins    ChartPlugins `json:"plugins"`
}

type ChartPlugins struct {
	Title ChartTitle `json:"title"`
}

type ChartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// ExecuteQueryForChart runs a query and returns chart-ready JSON: the first
// column becomes labels, the second (or only) column becomes the series.
// Errors come back as a JSON error object so the response is always JSON.
func (p *Provider) ExecuteQueryForChart(ctx context.Context, args ExecuteQueryForChartArgs) string {
	chartType := orDefault(args.ChartType, "bar")

	result, err := p.q.Query(ctx, args.Query)
	if err != nil {
		return chartError(fmt.Sprintf("Error executing query for chart: %v", err))
	}
	if len(result.Rows) == 0 {
		return chartError("No data returned from query")
	}

	valueIdx := 0
	seriesLabel := "Value"
	if len(result.Columns) > 1 {
		valueIdx = 1
		seriesLabel = result.Columns[1]
	}

	labels := make([]string, len(result.Rows))
	values := make([]any, len(result.Rows))
	rawData := make([]map[string]any, len(result.Rows))
	for i, row := range result.Rows {
		labels[i] = cellString(row[0])
		values[i] = cellValue(row[valueIdx])
		entry := make(map[string]any, len(result.Columns))
		for j, col := range result.Columns {
			if j < len(row) {
				entry[col] = cellValue(row[j])
			}
		}
		rawData[i] = entry
	}

	payload := map[string]any{
		"graph_data": ChartPayload{
			Type: chartType,
			Data: ChartData{
				Labels: labels,
				Datasets: []ChartDataset{{
					Label:           seriesLabel,
					Data:            values,
					BackgroundColor: chartPalette,
				}},
			},
			Options: ChartOptions{
				Responsive: true,
				Plugins: ChartPlugins{
					Title: ChartTitle{Display: true, Text: "Query Results"},
				},
			},
		},
		"raw_data": rawData,
	}

	out, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal chart payload", "error", err)
		return chartError(fmt.Sprintf("Error encoding chart data: %v", err))
	}
	return string(out)
}

// TableNames returns the raw table names in the default catalog and schema,
// for callers that need the list rather than the formatted text.
func (p *Provider) TableNames(ctx context.Context) ([]string, error) {
	result, err := p.q.Query(ctx, fmt.Sprintf("SHOW TABLES IN %s.%s", p.catalog, p.schema))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		name := cellString(row[0])
		if len(row) > 1 {
			name = cellString(row[1])
		}
		names = append(names, name)
	}
	return names, nil
}

// QualifiedName prefixes a bare table name with the default catalog and schema.
func (p *Provider) QualifiedName(table string) string {
	return fmt.Sprintf("%s.%s.%s", p.catalog, p.schema, table)
}

// ensureLimit appends a LIMIT clause to SELECT statements that lack one.
func ensureLimit(query string, limit int) string {
	upper := strings.ToUpper(strings.TrimSpace(query))
	if strings.HasPrefix(upper, "SELECT") && !strings.Contains(upper, "LIMIT") {
		return fmt.Sprintf("%s LIMIT %d", strings.TrimRight(query, ";"), limit)
	}
	return query
}

// classifyQueryError turns known warehouse error classes into actionable
// guidance the model can relay to the user.
func classifyQueryError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "TABLE_OR_VIEW_NOT_FOUND"):
		return fmt.Sprintf("Table not found. Error: %s\n\nTip: Use the list_tables function to see available tables, or describe_table to check table structure.", msg)
	case strings.Contains(msg, "COLUMN_NOT_FOUND"):
		return fmt.Sprintf("Column not found. Error: %s\n\nTip: Use describe_table function to see available columns.", msg)
	default:
		return fmt.Sprintf("An error occurred while executing the query: %s", msg)
	}
}

func chartError(msg string) string {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(c)
	default:
		return fmt.Sprintf("%v", c)
	}
}

// cellValue normalizes driver values for JSON encoding.
func cellValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
