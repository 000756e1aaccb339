package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"campus-rental-client/internal/logger"

	_ "modernc.org/sqlite"
)

const createKVTable = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLiteStore persists key/value pairs in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already opened database. The kv_store table
// must exist; OpenSQLite creates it.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLite opens (creating if needed) the session database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv_store: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM kv_store WHERE key = ?`
	logger.DatabaseCall("SELECT", query, "key", key)

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("SELECT", 0, nil, "key", key)
		return "", ErrNotFound
	}
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "key", key)
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	logger.DatabaseResult("SELECT", 1, nil, "key", key)
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := `INSERT OR REPLACE INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)`
	logger.DatabaseCall("UPSERT", query, "key", key)

	res, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	if err != nil {
		logger.DatabaseResult("UPSERT", 0, err, "key", key)
		return fmt.Errorf("write %s: %w", key, err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPSERT", n, nil, "key", key)
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = ?`
	logger.DatabaseCall("DELETE", query, "key", key)

	res, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err, "key", key)
		return fmt.Errorf("delete %s: %w", key, err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("DELETE", n, nil, "key", key)
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
