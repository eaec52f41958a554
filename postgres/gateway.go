// Package postgres implements the dbchat.Database gateway over a
// PostgreSQL connection.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fwojciec/dbchat"
)

// DefaultMaxRows caps how many result rows Run renders.
const DefaultMaxRows = 500

const pingTimeout = 5 * time.Second

// Interface compliance check.
var _ dbchat.Database = (*Gateway)(nil)

// Gateway executes SQL against a single PostgreSQL database and renders
// schemas and result sets as text for prompt interpolation.
type Gateway struct {
	db      *sql.DB
	maxRows int
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithMaxRows caps how many result rows Run renders. The query itself is
// never modified; surplus rows are read and counted but not shown.
func WithMaxRows(n int) Option {
	return func(g *Gateway) {
		g.maxRows = n
	}
}

// NewGateway wraps an existing database handle. Most callers use Open;
// this constructor exists for injecting test doubles.
func NewGateway(db *sql.DB, opts ...Option) *Gateway {
	g := &Gateway{db: db, maxRows: DefaultMaxRows}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Open connects to the database described by cfg and verifies the
// connection with a bounded ping.
func Open(ctx context.Context, cfg dbchat.ConnectionConfig, opts ...Option) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", dbchat.ErrConnection, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %w", dbchat.ErrConnection, err)
	}

	return NewGateway(db, opts...), nil
}

func dsn(cfg dbchat.ConnectionConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	return u.String()
}

const schemaQuery = `
SELECT table_name, column_name, data_type
FROM information_schema.columns
WHERE table_schema = 'public'
ORDER BY table_name, ordinal_position`

// Schema describes every table in the public schema as CREATE TABLE
// style text blocks. An empty database renders as "(no tables)".
func (g *Gateway) Schema(ctx context.Context) (string, error) {
	rows, err := g.db.QueryContext(ctx, schemaQuery)
	if err != nil {
		return "", fmt.Errorf("%w: query information_schema: %w", dbchat.ErrSchemaFetch, err)
	}
	defer func() { _ = rows.Close() }()

	var b strings.Builder
	current := ""
	for rows.Next() {
		var table, column, dataType string
		if err := rows.Scan(&table, &column, &dataType); err != nil {
			return "", fmt.Errorf("%w: scan column: %w", dbchat.ErrSchemaFetch, err)
		}
		if table != current {
			if current != "" {
				b.WriteString("\n);\n\n")
			}
			fmt.Fprintf(&b, "CREATE TABLE %s (", table)
			current = table
		} else {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "\n\t%s %s", column, dataType)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("%w: iterate columns: %w", dbchat.ErrSchemaFetch, err)
	}
	if current == "" {
		return "(no tables)", nil
	}
	b.WriteString("\n);")
	return b.String(), nil
}

// Run executes sqlText verbatim and renders the result set as a
// " | "-separated header line plus one line per row, with a psql-style
// row count footer. Rows beyond the configured cap are counted but not
// rendered. Statements that produce no result set render "(no result
// set)".
func (g *Gateway) Run(ctx context.Context, sqlText string) (string, error) {
	rows, err := g.db.QueryContext(ctx, sqlText)
	if err != nil {
		return "", fmt.Errorf("%w: %w", dbchat.ErrQueryExecution, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("%w: read columns: %w", dbchat.ErrQueryExecution, err)
	}
	if len(columns) == 0 {
		return "(no result set)", nil
	}

	var b strings.Builder
	b.WriteString(strings.Join(columns, " | "))

	count := 0
	for rows.Next() {
		count++
		if count > g.maxRows {
			// Keep consuming so the footer reports the true row count.
			continue
		}
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return "", fmt.Errorf("%w: scan row: %w", dbchat.ErrQueryExecution, err)
		}
		b.WriteByte('\n')
		b.WriteString(renderRow(values))
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("%w: iterate rows: %w", dbchat.ErrQueryExecution, err)
	}

	noun := "rows"
	if count == 1 {
		noun = "row"
	}
	if count > g.maxRows {
		fmt.Fprintf(&b, "\n(%d %s, showing first %d)", count, noun, g.maxRows)
	} else {
		fmt.Fprintf(&b, "\n(%d %s)", count, noun)
	}
	return b.String(), nil
}

// Close releases the underlying connection handle.
func (g *Gateway) Close() error {
	return g.db.Close()
}

func renderRow(values []any) string {
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = renderValue(v)
	}
	return strings.Join(fields, " | ")
}

// renderValue formats a single column value. Output is sanitized and
// flattened so every result row stays on one line.
func renderValue(v any) string {
	var s string
	switch typed := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		s = string(typed)
	case string:
		s = typed
	case time.Time:
		return typed.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", typed)
	}
	s = sanitize(s)
	return strings.ReplaceAll(s, "\n", " ")
}
