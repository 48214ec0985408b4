package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

func init() {
	Register(SchemeSQLite, func(l *slog.Logger) Loader { return &SQLiteLoader{logger: l} })
}

// OpenSQLite opens and pings a SQLite database file read-only.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

// SQLiteLoader reads a SQLite table.
type SQLiteLoader struct {
	logger *slog.Logger
}

// Load implements Loader.
func (l *SQLiteLoader) Load(ctx context.Context, ref Ref, opts Options) (*core.Frame, error) {
	db, err := OpenSQLite(ctx, ref.Location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	l.logger.Debug("reading sqlite table", slog.String("table", ref.Table), slog.Int("max_rows", opts.MaxRows))
	return ReadTable(ctx, db, QuoteIdent, ref.Table, opts.MaxRows)
}
