package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

// FrameFromRows drains rows into a frame, one column per result column.
// Byte slices become strings; NULL becomes nil. It does not close rows.
func FrameFromRows(name string, rows *sql.Rows) (*core.Frame, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	values := make([][]any, len(columns))
	scan := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range scan {
		dest[i] = &scan[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range scan {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			values[i] = append(values[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	frame := core.NewFrame(name)
	for i, c := range columns {
		if err := frame.AddColumn(c, values[i]); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// Quoter quotes a possibly schema-qualified table name for one SQL dialect.
type Quoter func(table string) string

// QuoteIdent quotes each dot-separated part of name with double quotes.
// Use QuoteColumn for column names, which may contain dots.
func QuoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteColumn(p)
	}
	return strings.Join(parts, ".")
}

// QuoteColumn quotes name as a single identifier.
func QuoteColumn(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ReadTable selects every column of a table into a frame named after it.
// A positive limit caps the rows read.
func ReadTable(ctx context.Context, db *sql.DB, quote Quoter, table string, limit int) (*core.Frame, error) {
	if quote == nil {
		quote = QuoteIdent
	}

	query := "SELECT * FROM " + quote(table) //nolint:gosec // identifier is quoted
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	//nolint:rowserrcheck // rows.Err() is checked by FrameFromRows
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	return FrameFromRows(table, rows)
}
