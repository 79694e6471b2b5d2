package testutil

import (
	"context"
	"database/sql"
	"testing"
	"topactors-backend/lib/sqliteutil"
)

type DBParams struct {
	// if unspecified, the database is left empty
	Schema string
	// if unspecified, it will use `:memory:`
	Path string
}

// SetupDB opens a sqlite database with the schema applied, it is closed when the test ends.
func SetupDB(t testing.TB, params DBParams) *sql.DB {
	t.Helper()

	path := params.Path
	if path == "" {
		path = ":memory:"
	}
	db, err := sqliteutil.OpenSqlite(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if params.Schema != "" {
		err = sqliteutil.ApplySchema(context.Background(), db, params.Schema)
		if err != nil {
			t.Fatal(err)
		}
	}
	return db
}
