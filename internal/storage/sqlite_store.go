// ABOUTME: SQLite-backed blob storage using a single key/value table.
// ABOUTME: Opens the database in WAL mode and upserts the whole blob on every save.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const blobSchema = `
CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// SQLiteBlobStore persists blobs in a SQLite database file.
type SQLiteBlobStore struct {
	db *sql.DB
}

// NewSQLiteBlobStore opens the database at path and ensures the blobs table exists.
func NewSQLiteBlobStore(path string) (*SQLiteBlobStore, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(blobSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create blobs table: %w", err)
	}
	return &SQLiteBlobStore{db: db}, nil
}

// openSQLite opens a WAL-mode connection and pings it so a bad DSN fails early.
func openSQLite(path string) (*sql.DB, error) {
	params := url.Values{}
	params.Add("_journal_mode", "WAL")
	params.Add("_synchronous", "NORMAL")

	dsn := path
	if strings.Contains(path, "?") {
		dsn += "&" + params.Encode()
	} else {
		dsn += "?" + params.Encode()
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database %q: %w", path, err)
	}
	// one writer at a time keeps SQLITE_BUSY out of the save path
	db.SetMaxOpenConns(1)
	return db, nil
}

// Save upserts blob under key.
func (s *SQLiteBlobStore) Save(ctx context.Context, key, blob string) error {
	const q = `
INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, strftime('%s','now'))
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`

	if _, err := s.db.ExecContext(ctx, q, key, blob); err != nil {
		return fmt.Errorf("failed to save blob %q: %w", key, err)
	}
	return nil
}

// Load returns the blob stored under key.
func (s *SQLiteBlobStore) Load(ctx context.Context, key string) (string, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load blob %q: %w", key, err)
	}
	return blob, nil
}

// Close closes the database.
func (s *SQLiteBlobStore) Close() error {
	return s.db.Close()
}
