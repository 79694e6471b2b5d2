package sqliteutil

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const (
	DRIVER_SQLITE = "sqlite"
	DRIVER_LIBSQL = "libsql"
)

// Config is the "database" section of a config file.
type Config struct {
	// Driver is either "sqlite" (the default) or "libsql".
	Driver string `json:"driver"`
	// File is the sqlite database path, ":memory:" is allowed.
	File string `json:"file"`
	// Url and AuthToken point at a remote libsql database.
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

func (c Config) OpenDB() (*sql.DB, error) {
	switch c.Driver {
	case "", DRIVER_SQLITE:
		return OpenSqlite(c.File)
	case DRIVER_LIBSQL:
		return OpenLibsql(c.Url, c.AuthToken)
	}
	return nil, wrapOpenDB(fmt.Errorf("unknown driver '%s'", c.Driver))
}

// OpenSqlite opens a local sqlite database, creating its parent directories if needed.
func OpenSqlite(path string) (*sql.DB, error) {
	if path == "" {
		return nil, wrapOpenDB(fmt.Errorf("a path was not specified"))
	}
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	// this also keeps ":memory:" databases alive across queries since every
	// connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, wrapOpenDB(err)
	}
	return db, nil
}

// OpenLibsql opens a remote libsql database.
func OpenLibsql(dbUrl, authToken string) (*sql.DB, error) {
	if dbUrl == "" {
		return nil, wrapOpenDB(fmt.Errorf("a url was not specified"))
	}
	if authToken != "" {
		parsed, err := url.Parse(dbUrl)
		if err != nil {
			return nil, wrapOpenDB(err)
		}
		query := parsed.Query()
		query.Set("authToken", authToken)
		parsed.RawQuery = query.Encode()
		dbUrl = parsed.String()
	}

	db, err := sql.Open("libsql", dbUrl)
	if err != nil {
		return nil, wrapOpenDB(err)
	}
	return db, nil
}

// ApplySchema runs every statement of a "create if not exists" style schema.
func ApplySchema(ctx context.Context, db *sql.DB, schema string) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// OpenAndApply opens the configured database and applies `schema` to it.
func (c Config) OpenAndApply(ctx context.Context, schema string) (*sql.DB, error) {
	db, err := c.OpenDB()
	if err != nil {
		return nil, err
	}
	err = ApplySchema(ctx, db, schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
