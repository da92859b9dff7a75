// Package storage is the SQLite record store. Four independent collections
// (projects, income entries, expense entries, savings goals) plus users, each
// keyed by generated ids and carrying user_id, is_active and timestamps.
//
// Every standard read goes through an owner-scoped query descriptor built by
// internal/query, so is_active = 1 and user_id = owner hold by construction.
// The Admin* accessors are the single deliberate exception: internal paths
// that can still see soft-deleted rows.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gigbook/internal/core"
	"gigbook/internal/query"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// countWhere counts rows in table matching the descriptor.
func (r *SQLiteRepository) countWhere(ctx context.Context, table string, b *query.Builder) (int, error) {
	where, args := b.Where()
	var total int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+table+" WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.NotFound("record not found")
	}
	return core.Internal(op, err)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func now() time.Time { return time.Now().UTC() }
