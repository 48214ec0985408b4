package source

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	tests := []struct {
		name      string
		table     string
		quote     Quoter
		limit     int
		setupMock func(mock sqlmock.Sqlmock)
		columns   []string
		values    map[string][]any
		errMsg    string
	}{
		{
			name:  "all rows",
			table: "schools",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "schools"$`).
					WillReturnRows(sqlmock.NewRows([]string{"Org Name", "Region"}).
						AddRow([]byte("Acme"), "Gauteng").
						AddRow("Sky High", nil))
			},
			columns: []string{"Org Name", "Region"},
			values: map[string][]any{
				"Org Name": {"Acme", "Sky High"},
				"Region":   {"Gauteng", nil},
			},
		},
		{
			name:  "qualified with limit",
			table: "crm.schools",
			quote: QuotePostgres,
			limit: 10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "crm"\."schools" LIMIT 10`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
			},
			columns: []string{"id"},
			values:  map[string][]any{"id": {int64(7)}},
		},
		{
			name:  "no rows",
			table: "empty",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "empty"`).
					WillReturnRows(sqlmock.NewRows([]string{"a", "b"}))
			},
			columns: []string{"a", "b"},
			values:  map[string][]any{"a": nil, "b": nil},
		},
		{
			name:  "query error",
			table: "missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("no such table"))
			},
			errMsg: "failed to query table missing",
		},
		{
			name:  "row error",
			table: "broken",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows([]string{"a"}).
					AddRow("x").
					RowError(0, errors.New("connection reset")))
			},
			errMsg: "connection reset",
		},
		{
			name:  "duplicate column names",
			table: "joined",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows([]string{"id", "id"}).AddRow(1, 2))
			},
			errMsg: "duplicate column name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setupMock(mock)

			frame, err := ReadTable(context.Background(), db, tt.quote, tt.table, tt.limit)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.table, frame.Name)
			assert.Equal(t, tt.columns, frame.ColumnNames())
			for name, want := range tt.values {
				col, ok := frame.Column(name)
				require.True(t, ok, name)
				assert.Equal(t, want, col.Values, name)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"schools"`, QuoteIdent("schools"))
	assert.Equal(t, `"crm"."schools"`, QuoteIdent("crm.schools"))
	assert.Equal(t, `"odd""name"`, QuoteIdent(`odd"name`))
}

func TestQuoteColumn(t *testing.T) {
	assert.Equal(t, `"No. of Students"`, QuoteColumn("No. of Students"))
	assert.Equal(t, `"a.b""c"`, QuoteColumn(`a.b"c`))
	assert.Equal(t, `"crm"."schools"`, QuotePostgres("crm.schools"))
}
