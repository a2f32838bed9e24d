// Package migrations applies the dict schema via goose, so schema
// changes live as versioned files under migrations/ instead of ad hoc
// DDL scattered through the store and builder packages.
package migrations

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// RunUp applies every pending migration under migrationsDir.
func RunUp(dbPath string, migrationsDir string) error {
	db, err := open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("run migrations up: %w", err)
	}
	return nil
}

// RunUpTo applies pending migrations only through version. The builder
// uses this to create the dict table (version 1) before its bulk-insert
// transaction runs, then calls RunUp afterward to create the pinyin
// index, matching the build procedure's create-table / insert /
// create-index ordering.
func RunUpTo(dbPath string, migrationsDir string, version int64) error {
	db, err := open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.UpTo(db, migrationsDir, version); err != nil {
		return fmt.Errorf("run migrations up to version %d: %w", version, err)
	}
	return nil
}

// open returns a sqlite handle ready for goose to operate on: parent
// directory created, busy timeout set, dialect registered once here
// rather than repeated at every call site.
func open(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dict db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 3000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	return db, nil
}
