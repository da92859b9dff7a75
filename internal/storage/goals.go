package storage

import (
	"context"

	"gigbook/internal/core"
	"gigbook/internal/query"
)

const goalColumns = "id, user_id, title, target_amount_cents, current_amount_cents, deadline, category, priority, cadence, is_completed, is_active, created_at, updated_at"

func scanGoal(row interface{ Scan(...any) error }) (*core.SavingsGoal, error) {
	var g core.SavingsGoal
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount.Cents, &g.CurrentAmount.Cents,
		&g.Deadline, &g.Category, &g.Priority, &g.Cadence, &g.IsCompleted, &g.IsActive,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *SQLiteRepository) CreateSavingsGoal(ctx context.Context, g *core.SavingsGoal) error {
	ts := now()
	g.CreatedAt, g.UpdatedAt = ts, ts
	g.IsActive = true

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO savings_goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		g.ID, g.UserID, g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		g.Deadline.UTC(), g.Category, g.Priority, g.Cadence, boolToInt(g.IsCompleted),
		g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return core.Internal("create savings goal", err)
	}
	return nil
}

func (r *SQLiteRepository) GetSavingsGoal(ctx context.Context, userID, id string) (*core.SavingsGoal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx, `
		SELECT `+goalColumns+` FROM savings_goals
		WHERE id = ? AND user_id = ? AND is_active = 1`, id, userID))
	if err != nil {
		return nil, notFoundOr(err, "get savings goal")
	}
	return g, nil
}

// AdminGetSavingsGoal bypasses owner and active scoping. Internal use only.
func (r *SQLiteRepository) AdminGetSavingsGoal(ctx context.Context, id string) (*core.SavingsGoal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx, `
		SELECT `+goalColumns+` FROM savings_goals WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOr(err, "admin get savings goal")
	}
	return g, nil
}

func (r *SQLiteRepository) ListSavingsGoals(ctx context.Context, b *query.Builder, page query.Page) ([]core.SavingsGoal, int, error) {
	total, err := r.countWhere(ctx, "savings_goals", b)
	if err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	where, args := b.Where()
	args = append(args, page.Limit, page.Offset())
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+goalColumns+` FROM savings_goals
		WHERE `+where+` ORDER BY `+b.OrderBy()+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, core.Internal("list savings goals", err)
	}
	defer rows.Close()

	goals := make([]core.SavingsGoal, 0, page.Limit)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, 0, core.Internal("scan savings goal", err)
		}
		goals = append(goals, *g)
	}
	return goals, total, rows.Err()
}

// ListAllSavingsGoals returns every goal matching the descriptor, without
// pagination. Used by the savings stats rollup.
func (r *SQLiteRepository) ListAllSavingsGoals(ctx context.Context, b *query.Builder) ([]core.SavingsGoal, error) {
	where, args := b.Where()
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+goalColumns+` FROM savings_goals
		WHERE `+where+` ORDER BY `+b.OrderBy(), args...)
	if err != nil {
		return nil, core.Internal("list all savings goals", err)
	}
	defer rows.Close()

	var goals []core.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, core.Internal("scan savings goal", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) UpdateSavingsGoal(ctx context.Context, g *core.SavingsGoal) error {
	g.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE savings_goals SET title = ?, target_amount_cents = ?, current_amount_cents = ?, deadline = ?, category = ?, priority = ?, cadence = ?, is_completed = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_active = 1`,
		g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.Deadline.UTC(),
		g.Category, g.Priority, g.Cadence, boolToInt(g.IsCompleted), g.UpdatedAt,
		g.ID, g.UserID,
	)
	if err != nil {
		return core.Internal("update savings goal", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFound("record not found")
	}
	return nil
}

func (r *SQLiteRepository) SoftDeleteSavingsGoal(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE savings_goals SET is_active = 0, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_active = 1`, now(), id, userID)
	if err != nil {
		return core.Internal("soft delete savings goal", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFound("record not found")
	}
	return nil
}
