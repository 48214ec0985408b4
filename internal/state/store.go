// Package state records inference runs in a SQLite database so results can
// be listed, inspected and merged later.
package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Run summarizes one stored inference.
type Run struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	SchemaPath string    `json:"schema_path"`
	Inputs     []string  `json:"inputs"`
	Matched    int       `json:"matched"`
	Unmatched  int       `json:"unmatched"`
	Missing    int       `json:"missing"`
}

// Store is the run history used by the CLI and the HTTP API.
type Store interface {
	SaveRun(ctx context.Context, inputs []string, schemaPath string, result *inference.Result) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	RunMatches(ctx context.Context, id string) ([]inference.ColumnMatch, error)
	RunResult(ctx context.Context, id string) (*inference.Result, error)
	Close() error
}

// SQLiteStore implements Store on SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore creates a store. If logger is nil, a discard logger is used.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Open opens the database at path. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path + "?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
		dsn += "&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened state store", slog.String("path", path))
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// SaveRun stores a result together with the inputs it was inferred from.
func (s *SQLiteStore) SaveRun(ctx context.Context, inputs []string, schemaPath string, result *inference.Result) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if inputs == nil {
		inputs = []string{}
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode inputs: %w", err)
	}

	run := &Run{
		ID:         generateID(),
		CreatedAt:  s.now(),
		SchemaPath: schemaPath,
		Inputs:     inputs,
		Matched:    len(result.Matches),
		Unmatched:  len(result.UnmatchedSources),
		Missing:    len(result.MissingTargets),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO inference_runs (id, created_at, schema_path, inputs, matched, unmatched, missing, result_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixMicro(), run.SchemaPath, string(inputsJSON),
		run.Matched, run.Unmatched, run.Missing, string(resultJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	for _, m := range result.Matches {
		reasons, err := json.Marshal(m.Reasons)
		if err != nil {
			return nil, fmt.Errorf("failed to encode reasons: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO column_matches (run_id, source, canonical, score, matched_label, reasons, sample_size)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, m.Source, m.Canonical, m.Score, m.MatchedLabel, string(reasons), m.SampleSize,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert match %s: %w", m.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debug("saved run", slog.String("id", run.ID), slog.Int("matched", run.Matched))
	return run, nil
}

const runColumns = `id, created_at, schema_path, inputs, matched, unmatched, missing`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run     Run
		created int64
		inputs  string
	)
	if err := row.Scan(&run.ID, &created, &run.SchemaPath, &inputs, &run.Matched, &run.Unmatched, &run.Missing); err != nil {
		return nil, err
	}
	run.CreatedAt = time.UnixMicro(created).UTC()
	if err := json.Unmarshal([]byte(inputs), &run.Inputs); err != nil {
		return nil, fmt.Errorf("failed to decode inputs of run %s: %w", run.ID, err)
	}
	return &run, nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM inference_runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns
// every run.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := `SELECT ` + runColumns + ` FROM inference_runs ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// RunMatches returns the matches of a run ordered by (canonical, source).
func (s *SQLiteStore) RunMatches(ctx context.Context, id string) ([]inference.ColumnMatch, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, canonical, score, matched_label, reasons, sample_size
		 FROM column_matches WHERE run_id = ? ORDER BY canonical, source`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []inference.ColumnMatch
	for rows.Next() {
		var (
			source, canonical, label, reasonsJSON string
			score                                 float64
			sampleSize                            int
		)
		if err := rows.Scan(&source, &canonical, &score, &label, &reasonsJSON, &sampleSize); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		var reasons []string
		if err := json.Unmarshal([]byte(reasonsJSON), &reasons); err != nil {
			return nil, fmt.Errorf("failed to decode reasons: %w", err)
		}
		matches = append(matches, inference.NewColumnMatch(source, canonical, score, label, reasons, sampleSize))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}
	return matches, nil
}

// RunResult decodes the full result stored with a run.
func (s *SQLiteStore) RunResult(ctx context.Context, id string) (*inference.Result, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT result_json FROM inference_runs WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run result: %w", err)
	}

	return inference.ParseResult([]byte(data))
}

var _ Store = (*SQLiteStore)(nil)
