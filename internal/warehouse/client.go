package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	dbsql "github.com/databricks/databricks-sql-go"

	"github.com/datapilot-ai/datapilot/internal/config"
)

// Result holds one executed query's rows along with the column ordering
// reported by the warehouse. It is never mutated after creation.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Querier is the minimal query-execution surface the tool layer depends on.
type Querier interface {
	Query(ctx context.Context, query string) (*Result, error)
}

type Client struct {
	db *sql.DB
}

func NewClient(cfg *config.DatabricksConfig) (*Client, error) {
	slog.Info("creating warehouse client", "host", cfg.Host, "httpPath", cfg.HTTPPath)
	if cfg.Host == "" || cfg.AccessToken == "" || cfg.HTTPPath == "" {
		return nil, fmt.Errorf("missing Databricks credentials: DATABRICKS_HOST, DATABRICKS_TOKEN, and DATABRICKS_HTTP_PATH must be set")
	}

	connector, err := dbsql.NewConnector(
		dbsql.WithServerHostname(cfg.Host),
		dbsql.WithHTTPPath(cfg.HTTPPath),
		dbsql.WithAccessToken(cfg.AccessToken),
	)
	if err != nil {
		return nil, fmt.Errorf("creating Databricks connector: %w", err)
	}

	return &Client{db: sql.OpenDB(connector)}, nil
}

// Query runs one statement on a dedicated connection and drains the full
// result set. Each call checks out and releases its own connection.
func (c *Client) Query(ctx context.Context, query string) (*Result, error) {
	slog.Debug("executing warehouse query", "query", query)

	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring warehouse connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		slog.Error("warehouse query failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading result columns: %w", err)
	}

	result := &Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slog.Debug("warehouse query executed", "rows", len(result.Rows))
	return result, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}
