package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"FXCast/internal/domain/models"
	domrepo "FXCast/internal/domain/repository"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteArtifactStore keeps versioned model and feature-table blobs in a
// local SQLite file. Every Put appends a new row; GetLatest resolves the
// most recent version for a (kind, symbol) pair.
type SQLiteArtifactStore struct {
	db *sql.DB
}

// NewSQLiteArtifactStore opens (and if needed creates) the artifact database.
func NewSQLiteArtifactStore(path string) (*SQLiteArtifactStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	const schema = `
        CREATE TABLE IF NOT EXISTS artifacts (
            id         INTEGER PRIMARY KEY AUTOINCREMENT,
            kind       TEXT NOT NULL,
            symbol     TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL,
            blob       BLOB NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_artifacts_kind_symbol
            ON artifacts (kind, symbol, id);
    `
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLiteArtifactStore{db: db}, nil
}

var _ domrepo.ArtifactStore = (*SQLiteArtifactStore)(nil)

func (s *SQLiteArtifactStore) Put(ctx context.Context, kind, symbol string, blob []byte) error {
	const q = `INSERT INTO artifacts (kind, symbol, created_at, blob) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, kind, symbol, time.Now().UTC(), blob); err != nil {
		return fmt.Errorf("put artifact %s/%s: %w", kind, symbol, err)
	}
	return nil
}

func (s *SQLiteArtifactStore) GetLatest(ctx context.Context, kind, symbol string) ([]byte, error) {
	const q = `
        SELECT blob FROM artifacts
        WHERE kind = ? AND symbol = ?
        ORDER BY id DESC
        LIMIT 1
    `
	var blob []byte
	err := s.db.QueryRowContext(ctx, q, kind, symbol).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact %s/%s: %w", kind, symbol, err)
	}
	return blob, nil
}

func (s *SQLiteArtifactStore) Close() error {
	return s.db.Close()
}
