package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a durable Store backed by an embedded sqlite database, so
// identical attachments never pay for OCR twice across restarts.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS acquisition_cache (
	key        TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	confidence REAL NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_acquisition_cache_expires ON acquisition_cache (expires_at);
`

// OpenSQLiteStore opens (creating if needed) the cache database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// sqlite handles one writer at a time; serialize on a single connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	var e Entry
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT text, confidence, expires_at FROM acquisition_cache WHERE key = ?`, key,
	).Scan(&e.Text, &e.Confidence, &expiresAt)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache get: %w", err)
	}
	if time.Now().Unix() > expiresAt {
		// Lazy expiry; a failed delete only delays reclamation.
		_, _ = s.db.ExecContext(ctx, `DELETE FROM acquisition_cache WHERE key = ?`, key)
		return Entry{}, false, nil
	}
	return e, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, e Entry, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO acquisition_cache (key, text, confidence, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET text = excluded.text, confidence = excluded.confidence, expires_at = excluded.expires_at`,
		key, e.Text, e.Confidence, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
