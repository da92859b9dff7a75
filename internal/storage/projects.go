package storage

import (
	"context"
	"strings"

	"gigbook/internal/core"
	"gigbook/internal/query"
)

const projectColumns = "id, user_id, name, client_name, expected_payment_cents, status, budget_allocation, created_date, is_active, created_at, updated_at"

func scanProject(row interface{ Scan(...any) error }) (*core.Project, error) {
	var p core.Project
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.ClientName, &p.ExpectedPayment.Cents,
		&p.Status, &p.BudgetAllocation, &p.CreatedDate, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, p *core.Project) error {
	ts := now()
	p.CreatedAt, p.UpdatedAt = ts, ts
	p.IsActive = true
	if p.CreatedDate.IsZero() {
		p.CreatedDate = ts
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		p.ID, p.UserID, p.Name, p.ClientName, p.ExpectedPayment.Cents,
		p.Status, p.BudgetAllocation, p.CreatedDate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return core.Internal("create project", err)
	}
	return nil
}

// GetProject is the standard owner-scoped lookup: soft-deleted rows are
// invisible here and report NotFound like any absent record.
func (r *SQLiteRepository) GetProject(ctx context.Context, userID, id string) (*core.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE id = ? AND user_id = ? AND is_active = 1`, id, userID))
	if err != nil {
		return nil, notFoundOr(err, "get project")
	}
	return p, nil
}

// AdminGetProject bypasses owner and active scoping. Internal use only.
func (r *SQLiteRepository) AdminGetProject(ctx context.Context, id string) (*core.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOr(err, "admin get project")
	}
	return p, nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context, b *query.Builder, page query.Page) ([]core.Project, int, error) {
	total, err := r.countWhere(ctx, "projects", b)
	if err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	where, args := b.Where()
	args = append(args, page.Limit, page.Offset())
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE `+where+` ORDER BY `+b.OrderBy()+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, core.Internal("list projects", err)
	}
	defer rows.Close()

	projects := make([]core.Project, 0, page.Limit)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, core.Internal("scan project", err)
		}
		projects = append(projects, *p)
	}
	return projects, total, rows.Err()
}

// GetProjectsByIDs batch-fetches the caller's active projects for breakdown
// joins, avoiding one lookup per entry. Missing ids are simply absent from
// the result map.
func (r *SQLiteRepository) GetProjectsByIDs(ctx context.Context, userID string, ids []string) (map[string]core.Project, error) {
	out := make(map[string]core.Project, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE user_id = ? AND is_active = 1 AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, core.Internal("get projects by ids", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, core.Internal("scan project", err)
		}
		out[p.ID] = *p
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateProject(ctx context.Context, p *core.Project) error {
	p.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, client_name = ?, expected_payment_cents = ?, status = ?, budget_allocation = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_active = 1`,
		p.Name, p.ClientName, p.ExpectedPayment.Cents, p.Status, p.BudgetAllocation, p.UpdatedAt,
		p.ID, p.UserID,
	)
	if err != nil {
		return core.Internal("update project", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFound("record not found")
	}
	return nil
}

func (r *SQLiteRepository) SoftDeleteProject(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET is_active = 0, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_active = 1`, now(), id, userID)
	if err != nil {
		return core.Internal("soft delete project", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFound("record not found")
	}
	return nil
}
