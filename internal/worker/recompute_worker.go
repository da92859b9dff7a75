package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gigbook/internal/amqp"
	"gigbook/internal/core"
	"gigbook/internal/query"
	"gigbook/internal/report"
	"gigbook/internal/storage"
)

// RecomputeWorker keeps the denormalized per-user totals in sync with the
// underlying records. The API publishes a message after every income or
// savings write; this worker is the only writer of the cached totals.
type RecomputeWorker struct {
	storage *storage.SQLiteRepository
	// reports is optional; nil disables export.
	reports report.Writer
	// lastExported is the "YYYY-MM" label of the closed month most recently
	// exported by this process. Only the periodic loop touches it.
	lastExported string
}

func NewRecomputeWorker(storage *storage.SQLiteRepository, reports report.Writer) *RecomputeWorker {
	return &RecomputeWorker{storage: storage, reports: reports}
}

// HandleRecomputeMessage processes a single recompute message from AMQP.
func (w *RecomputeWorker) HandleRecomputeMessage(ctx context.Context, msg *amqp.UserRecomputeMessage) error {
	slog.InfoContext(ctx, "Processing recompute message",
		"user_id", msg.UserID,
		"reason", msg.Reason)
	return w.recomputeUser(ctx, msg.UserID)
}

func (w *RecomputeWorker) recomputeUser(ctx context.Context, userID string) error {
	income, err := w.storage.SumActiveIncome(ctx, userID)
	if err != nil {
		return fmt.Errorf("sum income: %w", err)
	}
	savings, err := w.storage.SumActiveSavings(ctx, userID)
	if err != nil {
		return fmt.Errorf("sum savings: %w", err)
	}
	if err := w.storage.UpdateUserTotals(ctx, userID, income, savings); err != nil {
		return fmt.Errorf("update totals: %w", err)
	}
	return nil
}

// StartupReconcile recomputes totals for every active user. Run at worker
// startup to recover from messages lost while the worker was down.
func (w *RecomputeWorker) StartupReconcile(ctx context.Context) error {
	ids, err := w.storage.ListActiveUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users for reconcile: %w", err)
	}
	if len(ids) == 0 {
		slog.InfoContext(ctx, "No users to reconcile on startup")
		return nil
	}

	successCount := 0
	errorCount := 0
	for _, id := range ids {
		if err := w.recomputeUser(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to reconcile user totals",
				"user_id", id, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup reconcile completed",
		"total", len(ids),
		"reconciled", successCount,
		"errors", errorCount)
	return nil
}

// RunPeriodicReconcile reconciles all user totals every interval until the
// context is cancelled. It backs up the message-driven path, and when a
// report sink is configured it also exports the most recently closed
// calendar month: once on the first tick after startup, then once per
// rollover.
func (w *RecomputeWorker) RunPeriodicReconcile(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.StartupReconcile(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic reconcile failed", "error", err)
			}
			w.exportClosedMonth(ctx, time.Now().UTC())
		}
	}
}

// exportClosedMonth exports the calendar month preceding now, unless this
// process already exported it. A failed export is retried on the next tick.
func (w *RecomputeWorker) exportClosedMonth(ctx context.Context, now time.Time) {
	if w.reports == nil {
		return
	}

	closed := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	label := closed.Format("2006-01")
	if label == w.lastExported {
		return
	}

	if err := w.ExportMonthlyReports(ctx, closed.Year(), closed.Month()); err != nil {
		slog.ErrorContext(ctx, "Monthly report export failed", "month", label, "error", err)
		return
	}
	w.lastExported = label
}

// ExportMonthlyReports writes one report row per active user for the given
// month. No-op when no report sink is configured.
func (w *RecomputeWorker) ExportMonthlyReports(ctx context.Context, year int, month time.Month) error {
	if w.reports == nil {
		slog.WarnContext(ctx, "No report sink configured, skipping export")
		return nil
	}

	ids, err := w.storage.ListActiveUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users for export: %w", err)
	}

	for _, id := range ids {
		if err := w.exportUserMonth(ctx, id, year, month); err != nil {
			slog.ErrorContext(ctx, "Failed to export monthly report",
				"user_id", id, "year", year, "month", int(month), "error", err)
		}
	}
	return nil
}

func (w *RecomputeWorker) exportUserMonth(ctx context.Context, userID string, year int, month time.Month) error {
	u, err := w.storage.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := start.AddDate(0, 1, -1)

	incomeSamples, err := w.storage.ListIncomeSamples(ctx, query.ForOwner(userID).From(start).Until(lastDay))
	if err != nil {
		return fmt.Errorf("list income: %w", err)
	}
	expenseSamples, err := w.storage.ListExpenseSamples(ctx, query.ForOwner(userID).From(start).Until(lastDay))
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	goals, err := w.storage.ListAllSavingsGoals(ctx, query.ForOwner(userID))
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}

	var income, expenses core.Money
	for _, s := range incomeSamples {
		income = income.Add(s.Amount)
	}
	for _, s := range expenseSamples {
		expenses = expenses.Add(s.Amount)
	}
	progress := core.SummarizeGoals(goals, time.Now(), 0).TotalProgress

	ref, err := w.reports.Append(ctx, report.MonthlyReport{
		UserID:          u.ID,
		UserEmail:       u.Email,
		Month:           fmt.Sprintf("%04d-%02d", year, int(month)),
		IncomeTotal:     income,
		ExpenseTotal:    expenses,
		Net:             income.Sub(expenses),
		SavingsProgress: progress,
		GeneratedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("append report: %w", err)
	}

	slog.InfoContext(ctx, "Monthly report exported",
		"user_id", userID,
		"ref", ref,
		"income_cents", income.Cents,
		"expense_cents", expenses.Cents)
	return nil
}
