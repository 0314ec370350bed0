// Package sqlite stores fontedit documents as SQLite database files.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/fontedit/fontedit/internal/log"
	"github.com/fontedit/fontedit/internal/store"
)

// SchemaVersion is written to PRAGMA user_version.
const SchemaVersion = 1

//go:embed schema.sql
var schema string

// DB is an open document file.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens or creates the document database at path and applies the
// schema. Parent directories are created with 0700 permissions.
func NewDB(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create document directory: %w", err)
	}
	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: path}
	if err := db.init(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// OpenReadOnly opens an existing document without modifying it.
func OpenReadOnly(ctx context.Context, path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	conn, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: path}
	if err := db.checkVersion(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) init(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = DELETE",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.conn.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	version, err := db.version(ctx)
	if err != nil {
		return err
	}
	if version > SchemaVersion {
		return fmt.Errorf("document version %d: %w", version, store.ErrUnsupportedVersion)
	}
	if version == SchemaVersion {
		return nil
	}
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.conn.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	log.Debug(log.CatStore, "Applied schema", "path", db.path, "version", SchemaVersion)
	return nil
}

func (db *DB) checkVersion(ctx context.Context) error {
	version, err := db.version(ctx)
	if err != nil {
		return err
	}
	switch {
	case version == 0:
		return store.ErrNotDocument
	case version > SchemaVersion:
		return fmt.Errorf("document version %d: %w", version, store.ErrUnsupportedVersion)
	}
	return nil
}

func (db *DB) version(ctx context.Context) (int, error) {
	var version int
	err := db.conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w: %w", store.ErrNotDocument, err)
	}
	return version, nil
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
