package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

func init() {
	Register(SchemePostgres, func(l *slog.Logger) Loader { return &PostgresLoader{logger: l} })
}

// OpenPostgres opens and pings a PostgreSQL database through pgx.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// QuotePostgres quotes a schema-qualified table name with pgx's identifier rules.
func QuotePostgres(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// PostgresLoader reads a PostgreSQL table.
type PostgresLoader struct {
	logger *slog.Logger
}

// Load implements Loader.
func (l *PostgresLoader) Load(ctx context.Context, ref Ref, opts Options) (*core.Frame, error) {
	db, err := OpenPostgres(ctx, ref.Location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	l.logger.Debug("reading postgres table", slog.String("table", ref.Table), slog.Int("max_rows", opts.MaxRows))
	return ReadTable(ctx, db, QuotePostgres, ref.Table, opts.MaxRows)
}
