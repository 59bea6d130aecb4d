// Package sqlite provides a SQLite-backed repository.Store
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/honeycarbs/plugplayers/internal/repository"
	"github.com/honeycarbs/plugplayers/internal/storage/sqlite/migrations"
)

var _ repository.Store = (*Store)(nil)

// Store persists records in a single SQLite table
type Store struct {
	db *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path and applies embedded migrations
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get loads one record
func (s *Store) Get(ctx context.Context, kind repository.Kind, id string) (repository.Record, error) {
	var (
		rec       = repository.Record{Kind: kind, ID: id}
		data      string
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, data, updated_at FROM records WHERE kind = ? AND id = ?`,
		string(kind), id,
	).Scan(&rec.Version, &data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.Record{}, repository.ErrNotFound
	}
	if err != nil {
		return repository.Record{}, fmt.Errorf("sqlite: get %s %q: %w", kind, id, err)
	}
	rec.Data = []byte(data)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

// Create inserts rec at version 1
func (s *Store) Create(ctx context.Context, rec repository.Record) (repository.Record, error) {
	rec.Version = 1
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (kind, id, version, data, updated_at) VALUES (?, ?, ?, ?, ?)`,
		string(rec.Kind), rec.ID, rec.Version, string(rec.Data), toMillis(rec.UpdatedAt),
	)
	if err != nil {
		if isConstraintError(err) {
			return repository.Record{}, repository.ErrConflict
		}
		return repository.Record{}, fmt.Errorf("sqlite: create %s %q: %w", rec.Kind, rec.ID, err)
	}
	return rec, nil
}

// Update writes rec only when the stored version equals expected
func (s *Store) Update(ctx context.Context, rec repository.Record, expected int64) (repository.Record, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET version = ?, data = ?, updated_at = ? WHERE kind = ? AND id = ? AND version = ?`,
		expected+1, string(rec.Data), toMillis(rec.UpdatedAt), string(rec.Kind), rec.ID, expected,
	)
	if err != nil {
		return repository.Record{}, fmt.Errorf("sqlite: update %s %q: %w", rec.Kind, rec.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return repository.Record{}, fmt.Errorf("sqlite: update %s %q: %w", rec.Kind, rec.ID, err)
	}
	if n == 0 {
		if _, err := s.Get(ctx, rec.Kind, rec.ID); err != nil {
			return repository.Record{}, err
		}
		return repository.Record{}, repository.ErrVersionConflict
	}
	rec.Version = expected + 1
	return rec, nil
}

// List returns every record of kind ordered by id
func (s *Store) List(ctx context.Context, kind repository.Kind) ([]repository.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, version, data, updated_at FROM records WHERE kind = ? ORDER BY id`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", kind, err)
	}
	defer rows.Close()

	out := make([]repository.Record, 0)
	for rows.Next() {
		var (
			rec       = repository.Record{Kind: kind}
			data      string
			updatedAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.Version, &data, &updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan %s: %w", kind, err)
		}
		rec.Data = []byte(data)
		rec.UpdatedAt = fromMillis(updatedAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", kind, err)
	}
	return out, nil
}

func isConstraintError(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
