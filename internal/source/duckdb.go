package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

func init() {
	Register(SchemeFile, func(l *slog.Logger) Loader { return &fileLoader{logger: l} })
}

// FileExtensions lists the file extensions DuckDB reads.
var FileExtensions = []string{".csv", ".tsv", ".txt", ".parquet", ".json", ".jsonl", ".ndjson"}

// DuckDB reads and writes files through an in-memory DuckDB database.
type DuckDB struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenDuckDB opens an in-memory DuckDB database.
// If logger is nil, a discard logger is used.
func OpenDuckDB(ctx context.Context, logger *slog.Logger) (*DuckDB, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	return &DuckDB{db: db, logger: logger}, nil
}

// Close closes the DuckDB connection.
func (d *DuckDB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// LoadFile reads a file into a frame named after its base name. Delimited
// text is read with every column as VARCHAR so values keep their original
// spelling. A positive limit caps the rows read.
func (d *DuckDB) LoadFile(ctx context.Context, path string, limit int) (*core.Frame, error) {
	scan, err := scanExpr(path)
	if err != nil {
		return nil, err
	}

	query := "SELECT * FROM " + scan
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	d.logger.Debug("reading file", slog.String("path", path), slog.Int("max_rows", limit))

	//nolint:rowserrcheck // rows.Err() is checked by FrameFromRows
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer func() { _ = rows.Close() }()

	return FrameFromRows(filepath.Base(path), rows)
}

// WriteRenamed copies the file at in to out with columns renamed per the
// mapping. Columns absent from the mapping keep their names. The output
// format follows the extension of out: Parquet for .parquet, JSON lines for
// .json/.jsonl/.ndjson, CSV otherwise.
func (d *DuckDB) WriteRenamed(ctx context.Context, in, out string, rename map[string]string) error {
	scan, err := scanExpr(in)
	if err != nil {
		return err
	}

	columns, err := d.columns(ctx, scan)
	if err != nil {
		return fmt.Errorf("failed to describe %s: %w", in, err)
	}

	selects := make([]string, len(columns))
	for i, c := range columns {
		to := c
		if r, ok := rename[c]; ok {
			to = r
		}
		selects[i] = QuoteColumn(c) + " AS " + QuoteColumn(to)
	}

	absOut, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	query := fmt.Sprintf("COPY (SELECT %s FROM %s) TO %s (%s)",
		strings.Join(selects, ", "), scan, quoteLiteral(absOut), copyOptions(out))

	d.logger.Debug("writing renamed file", slog.String("in", in), slog.String("out", absOut))
	if _, err := d.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}

func (d *DuckDB) columns(ctx context.Context, scan string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT * FROM "+scan+" LIMIT 0")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return rows.Columns()
}

// scanExpr returns the DuckDB table function reading path.
func scanExpr(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	lit := quoteLiteral(abs)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return fmt.Sprintf("read_csv(%s, header=true, all_varchar=true)", lit), nil
	case ".tsv":
		return fmt.Sprintf("read_csv(%s, header=true, all_varchar=true, delim='\\t')", lit), nil
	case ".parquet":
		return fmt.Sprintf("read_parquet(%s)", lit), nil
	case ".json", ".jsonl", ".ndjson":
		return fmt.Sprintf("read_json_auto(%s)", lit), nil
	default:
		return "", fmt.Errorf("unsupported file type %q (supported: %s)",
			filepath.Ext(path), strings.Join(FileExtensions, ", "))
	}
}

func copyOptions(out string) string {
	switch strings.ToLower(filepath.Ext(out)) {
	case ".parquet":
		return "FORMAT PARQUET"
	case ".json", ".jsonl", ".ndjson":
		return "FORMAT JSON"
	case ".tsv":
		return "HEADER, DELIMITER '\\t'"
	default:
		return "HEADER, DELIMITER ','"
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// fileLoader adapts DuckDB to the Loader interface with one database per load.
type fileLoader struct {
	logger *slog.Logger
}

func (l *fileLoader) Load(ctx context.Context, ref Ref, opts Options) (*core.Frame, error) {
	d, err := OpenDuckDB(ctx, l.logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = d.Close() }()
	return d.LoadFile(ctx, ref.Location, opts.MaxRows)
}
