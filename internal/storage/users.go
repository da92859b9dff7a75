package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gigbook/internal/core"
)

func (r *SQLiteRepository) CreateUser(ctx context.Context, u *core.User) error {
	ts := now()
	u.CreatedAt, u.UpdatedAt = ts, ts
	u.IsActive = true

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, currency, total_income_cents, total_savings_cents, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		u.ID, u.Email, u.Name, u.Currency, u.TotalIncome.Cents, u.TotalSavings.Cents, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return core.Conflict("email already registered")
		}
		return core.Internal("create user", err)
	}
	return nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (*core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, currency, total_income_cents, total_savings_cents, is_active, created_at, updated_at
		FROM users WHERE id = ? AND is_active = 1`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Currency, &u.TotalIncome.Cents, &u.TotalSavings.Cents, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, "get user")
	}
	return &u, nil
}

// UpdateUserTotals persists the denormalized rollups. Only the recompute
// worker calls this; the live request path never maintains the cache inline.
func (r *SQLiteRepository) UpdateUserTotals(ctx context.Context, userID string, income, savings core.Money) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET total_income_cents = ?, total_savings_cents = ?, updated_at = ?
		WHERE id = ? AND is_active = 1`,
		income.Cents, savings.Cents, now(), userID,
	)
	if err != nil {
		return core.Internal("update user totals", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFound("record not found")
	}

	slog.InfoContext(ctx, "User totals updated",
		"user_id", userID,
		"total_income_cents", income.Cents,
		"total_savings_cents", savings.Cents)
	return nil
}

// ListActiveUserIDs returns the ids of all active users, oldest first. The
// recompute worker walks this list when reconciling totals after downtime.
func (r *SQLiteRepository) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM users WHERE is_active = 1 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SumActiveIncome recomputes a user's total income over active entries.
func (r *SQLiteRepository) SumActiveIncome(ctx context.Context, userID string) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM income_entries
		WHERE user_id = ? AND is_active = 1`, userID,
	).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum active income: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SumActiveSavings recomputes a user's total saved progress over active goals.
func (r *SQLiteRepository) SumActiveSavings(ctx context.Context, userID string) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(current_amount_cents), 0) FROM savings_goals
		WHERE user_id = ? AND is_active = 1`, userID,
	).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum active savings: %w", err)
	}
	return core.Money{Cents: cents}, nil
}
