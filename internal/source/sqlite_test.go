package source

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "crm.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE schools ("Org Name" TEXT, "Region" TEXT, staff INTEGER)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO schools VALUES ('Acme', 'Gauteng', 12), ('Sky High', NULL, 3)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	frame, err := Load(ctx, "sqlite://"+path+"#schools", Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "schools", frame.Name)
	assert.Equal(t, []string{"Org Name", "Region", "staff"}, frame.ColumnNames())

	region, ok := frame.Column("Region")
	require.True(t, ok)
	assert.Equal(t, []any{"Gauteng", nil}, region.Values)

	staff, ok := frame.Column("staff")
	require.True(t, ok)
	assert.Equal(t, []any{int64(12), int64(3)}, staff.Values)

	limited, err := Load(ctx, "sqlite://"+path+"#schools", Options{MaxRows: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, limited.RowCount())
}

func TestLoad_SQLiteMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")
	_, err := Load(context.Background(), "sqlite://"+path+"#schools", Options{}, nil)
	assert.Error(t, err)
}
