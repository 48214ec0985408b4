package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IAmJonoBo/watercrawl-sub002/internal/testutil"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult() *inference.Result {
	return inference.NewResult(
		[]inference.ColumnMatch{
			inference.NewColumnMatch("Org Name", "Name of Organisation", 0.8, "School Name",
				[]string{"token overlap with 'School Name' (coverage 0.50)"}, 2),
			inference.NewColumnMatch("Region", "Province", 1.0, "Province",
				[]string{"ontology match (allowed_values): 2/2 sampled values in allowed set"}, 2),
		},
		[]string{"Org Name", "Region", "Notes"},
		[]string{"Name of Organisation", "Province", "Website URL"},
	)
}

func TestSQLiteStore_OpenMigrate(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Migrating again is a no-op.
	require.NoError(t, store.Migrate())

	for _, table := range []string{"inference_runs", "column_matches"} {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		require.NoError(t, err, table)
		_ = rows.Close()
	}
}

func TestSQLiteStore_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	require.NoError(t, store.Migrate())
	_, err := store.SaveRun(context.Background(), []string{"a.csv"}, "schema.yaml", sampleResult())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened := NewSQLiteStore(nil)
	require.NoError(t, reopened.Open(path))
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate())

	runs, err := reopened.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)
	ctx := context.Background()

	assert.Error(t, store.Migrate())
	_, err := store.SaveRun(ctx, nil, "", sampleResult())
	assert.ErrorContains(t, err, "database not opened")
	_, err = store.GetRun(ctx, "x")
	assert.ErrorContains(t, err, "database not opened")
	_, err = store.ListRuns(ctx, 0)
	assert.ErrorContains(t, err, "database not opened")
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_SaveAndGetRun(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	store.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	run, err := store.SaveRun(ctx, []string{"a.csv", "b.csv"}, "schema.yaml", sampleResult())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 2, run.Matched)
	assert.Equal(t, 1, run.Unmatched)
	assert.Equal(t, 1, run.Missing)

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, got)

	_, err = store.GetRun(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteStore_RunMatchesAndResult(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	want := sampleResult()

	run, err := store.SaveRun(ctx, []string{"a.csv"}, "", want)
	require.NoError(t, err)

	matches, err := store.RunMatches(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, want.Matches, matches)

	result, err := store.RunResult(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, want.RenameMap, result.RenameMap)
	assert.Equal(t, want.UnmatchedSources, result.UnmatchedSources)
	assert.Equal(t, want.MissingTargets, result.MissingTargets)

	_, err = store.RunMatches(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = store.RunResult(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	tests := []struct {
		name  string
		saves int
		limit int
		want  int
	}{
		{name: "empty", saves: 0, limit: 0, want: 0},
		{name: "all", saves: 3, limit: 0, want: 3},
		{name: "limited", saves: 3, limit: 2, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			ctx := context.Background()

			base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			var ids []string
			for i := 0; i < tt.saves; i++ {
				store.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
				run, err := store.SaveRun(ctx, []string{"f.csv"}, "", sampleResult())
				require.NoError(t, err)
				ids = append(ids, run.ID)
			}

			runs, err := store.ListRuns(ctx, tt.limit)
			require.NoError(t, err)
			require.Len(t, runs, tt.want)
			for i, r := range runs {
				assert.Equal(t, ids[len(ids)-1-i], r.ID, "newest first")
			}
		})
	}
}

func TestSQLiteStore_EmptyResult(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	run, err := store.SaveRun(ctx, nil, "", inference.NewResult(nil, []string{"x"}, []string{"Y"}))
	require.NoError(t, err)
	assert.Equal(t, []string{}, run.Inputs)

	matches, err := store.RunMatches(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
