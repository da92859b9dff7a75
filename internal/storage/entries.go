package storage

import (
	"context"

	"gigbook/internal/core"
	"gigbook/internal/query"
)

const (
	incomeColumns  = "id, user_id, project_id, amount_cents, description, entry_date, category, is_active, created_at, updated_at"
	expenseColumns = "id, user_id, project_id, amount_cents, description, entry_date, category, receipt_url, is_active, created_at, updated_at"
)

func scanIncome(row interface{ Scan(...any) error }) (*core.IncomeEntry, error) {
	var e core.IncomeEntry
	err := row.Scan(&e.ID, &e.UserID, &e.ProjectID, &e.Amount.Cents, &e.Description,
		&e.Date, &e.Category, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanExpense(row interface{ Scan(...any) error }) (*core.ExpenseEntry, error) {
	var e core.ExpenseEntry
	err := row.Scan(&e.ID, &e.UserID, &e.ProjectID, &e.Amount.Cents, &e.Description,
		&e.Date, &e.Category, &e.ReceiptURL, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *SQLiteRepository) CreateIncomeEntry(ctx context.Context, e *core.IncomeEntry) error {
	ts := now()
	e.CreatedAt, e.UpdatedAt = ts, ts
	e.IsActive = true

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO income_entries (`+incomeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		e.ID, e.UserID, e.ProjectID, e.Amount.Cents, e.Description,
		e.Date.UTC(), e.Category, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return core.Internal("create income entry", err)
	}
	return nil
}

func (r *SQLiteRepository) GetIncomeEntry(ctx context.Context, userID, id string) (*core.IncomeEntry, error) {
	e, err := scanIncome(r.db.QueryRowContext(ctx, `
		SELECT `+incomeColumns+` FROM income_entries
		WHERE id = ? AND user_id = ? AND is_active = 1`, id, userID))
	if err != nil {
		return nil, notFoundOr(err, "get income entry")
	}
	return e, nil
}

// AdminGetIncomeEntry bypasses owner and active scoping. Internal use only.
func (r *SQLiteRepository) AdminGetIncomeEntry(ctx context.Context, id string) (*core.IncomeEntry, error) {
	e, err := scanIncome(r.db.QueryRowContext(ctx, `
		SELECT `+incomeColumns+` FROM income_entries WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOr(err, "admin get income entry")
	}
	return e, nil
}

func (r *SQLiteRepository) ListIncomeEntries(ctx context.Context, b *query.Builder, page query.Page) ([]core.IncomeEntry, int, error) {
	total, err := r.countWhere(ctx, "income_entries", b)
	if err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	where, args := b.Where()
	args = append(args, page.Limit, page.Offset())
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+incomeColumns+` FROM income_entries
		WHERE `+where+` ORDER BY `+b.OrderBy()+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, core.Internal("list income entries", err)
	}
	defer rows.Close()

	entries := make([]core.IncomeEntry, 0, page.Limit)
	for rows.Next() {
		e, err := scanIncome(rows)
		if err != nil {
			return nil, 0, core.Internal("scan income entry", err)
		}
		entries = append(entries, *e)
	}
	return entries, total, rows.Err()
}

func (r *SQLiteRepository) UpdateIncomeEntry(ctx context.Context, e *core.IncomeEntry) error {
	e.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE income_entries SET project_id = ?, amount_cents = ?, description = ?, entry_date = ?, category = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_active = 1`,
		e.ProjectID, e.Amount.Cents, e.Description, e.Date.UTC(), e.Category, e.UpdatedAt,
		e.ID, e.UserID,
	)
	if err != nil {
		return core.Internal("update income entry", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFound("record not found")
	}
	return nil
}

func (r *SQLiteRepository) SoftDeleteIncomeEntry(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE income_entries SET is_active = 0, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_active = 1`, now(), id, userID)
	if err != nil {
		return core.Internal("soft delete income entry", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFound("record not found")
	}
	return nil
}

func (r *SQLiteRepository) CreateExpenseEntry(ctx context.Context, e *core.ExpenseEntry) error {
	ts := now()
	e.CreatedAt, e.UpdatedAt = ts, ts
	e.IsActive = true

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expense_entries (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		e.ID, e.UserID, e.ProjectID, e.Amount.Cents, e.Description,
		e.Date.UTC(), e.Category, e.ReceiptURL, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return core.Internal("create expense entry", err)
	}
	return nil
}

func (r *SQLiteRepository) GetExpenseEntry(ctx context.Context, userID, id string) (*core.ExpenseEntry, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx, `
		SELECT `+expenseColumns+` FROM expense_entries
		WHERE id = ? AND user_id = ? AND is_active = 1`, id, userID))
	if err != nil {
		return nil, notFoundOr(err, "get expense entry")
	}
	return e, nil
}

// AdminGetExpenseEntry bypasses owner and active scoping. Internal use only.
func (r *SQLiteRepository) AdminGetExpenseEntry(ctx context.Context, id string) (*core.ExpenseEntry, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx, `
		SELECT `+expenseColumns+` FROM expense_entries WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOr(err, "admin get expense entry")
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenseEntries(ctx context.Context, b *query.Builder, page query.Page) ([]core.ExpenseEntry, int, error) {
	total, err := r.countWhere(ctx, "expense_entries", b)
	if err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	where, args := b.Where()
	args = append(args, page.Limit, page.Offset())
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+expenseColumns+` FROM expense_entries
		WHERE `+where+` ORDER BY `+b.OrderBy()+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, core.Internal("list expense entries", err)
	}
	defer rows.Close()

	entries := make([]core.ExpenseEntry, 0, page.Limit)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, core.Internal("scan expense entry", err)
		}
		entries = append(entries, *e)
	}
	return entries, total, rows.Err()
}

func (r *SQLiteRepository) UpdateExpenseEntry(ctx context.Context, e *core.ExpenseEntry) error {
	e.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE expense_entries SET project_id = ?, amount_cents = ?, description = ?, entry_date = ?, category = ?, receipt_url = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_active = 1`,
		e.ProjectID, e.Amount.Cents, e.Description, e.Date.UTC(), e.Category, e.ReceiptURL, e.UpdatedAt,
		e.ID, e.UserID,
	)
	if err != nil {
		return core.Internal("update expense entry", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFound("record not found")
	}
	return nil
}

func (r *SQLiteRepository) SoftDeleteExpenseEntry(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expense_entries SET is_active = 0, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_active = 1`, now(), id, userID)
	if err != nil {
		return core.Internal("soft delete expense entry", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFound("record not found")
	}
	return nil
}

// ListIncomeSamples streams the aggregation view of income entries matching
// the descriptor, without pagination. Stats and listing share the same
// descriptor so both paths agree on which records are in scope.
func (r *SQLiteRepository) ListIncomeSamples(ctx context.Context, b *query.Builder) ([]core.EntrySample, error) {
	return r.listSamples(ctx, "income_entries", b)
}

// ListExpenseSamples is the expense counterpart of ListIncomeSamples.
func (r *SQLiteRepository) ListExpenseSamples(ctx context.Context, b *query.Builder) ([]core.EntrySample, error) {
	return r.listSamples(ctx, "expense_entries", b)
}

func (r *SQLiteRepository) listSamples(ctx context.Context, table string, b *query.Builder) ([]core.EntrySample, error) {
	where, args := b.Where()
	rows, err := r.db.QueryContext(ctx, `
		SELECT amount_cents, entry_date, category, project_id FROM `+table+`
		WHERE `+where, args...)
	if err != nil {
		return nil, core.Internal("list samples", err)
	}
	defer rows.Close()

	var samples []core.EntrySample
	for rows.Next() {
		var s core.EntrySample
		if err := rows.Scan(&s.Amount.Cents, &s.Date, &s.Category, &s.ProjectID); err != nil {
			return nil, core.Internal("scan sample", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}
