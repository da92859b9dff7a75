package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gigbook/internal/amqp"
	"gigbook/internal/core"
	"gigbook/internal/query"
	"gigbook/internal/storage"
)

type EntryInput struct {
	ProjectID   string
	Amount      core.Money
	Description string
	Date        time.Time
	Category    string
	// ReceiptURL applies to expense entries only.
	ReceiptURL string
}

// EntryDetail is a single entry joined with its project's display names.
// Dangling references fall back to the unknown-project placeholders.
type (
	IncomeDetail struct {
		Entry       core.IncomeEntry
		ProjectName string
		ClientName  string
	}

	ExpenseDetail struct {
		Entry       core.ExpenseEntry
		ProjectName string
		ClientName  string
	}
)

// EntryService owns income and expense entry operations. Every write
// re-checks that the referenced project exists and belongs to the caller;
// a cross-user reference reports NotFound, never revealing the project.
type EntryService struct {
	storage   *storage.SQLiteRepository
	publisher RecomputePublisher
	stats     StatsInvalidator
}

func NewEntryService(storage *storage.SQLiteRepository, publisher RecomputePublisher, stats StatsInvalidator) *EntryService {
	return &EntryService{storage: storage, publisher: publisher, stats: stats}
}

func (s *EntryService) checkProjectRef(ctx context.Context, userID, projectID string) error {
	_, err := s.storage.GetProject(ctx, userID, projectID)
	return err
}

func (s *EntryService) CreateIncome(ctx context.Context, userID string, in EntryInput) (*core.IncomeEntry, error) {
	e := &core.IncomeEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		ProjectID:   in.ProjectID,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        in.Date,
		Category:    in.Category,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkProjectRef(ctx, userID, e.ProjectID); err != nil {
		return nil, err
	}
	if err := s.storage.CreateIncomeEntry(ctx, e); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, userID, amqp.ReasonIncomeChanged)
	return e, nil
}

func (s *EntryService) GetIncome(ctx context.Context, userID, id string) (*IncomeDetail, error) {
	e, err := s.storage.GetIncomeEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	d := &IncomeDetail{Entry: *e, ProjectName: core.UnknownProjectName, ClientName: core.UnknownClientName}
	if p, err := s.storage.GetProject(ctx, userID, e.ProjectID); err == nil {
		d.ProjectName, d.ClientName = p.Name, p.ClientName
	}
	return d, nil
}

func (s *EntryService) ListIncome(ctx context.Context, userID string, opts ListOptions) ([]core.IncomeEntry, query.Pagination, error) {
	entries, total, err := s.storage.ListIncomeEntries(ctx, opts.entryQuery(userID, core.IncomeCategories), opts.page())
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return entries, query.Paginate(total, opts.page()), nil
}

func (s *EntryService) UpdateIncome(ctx context.Context, userID, id string, in EntryInput) (*core.IncomeEntry, error) {
	e, err := s.storage.GetIncomeEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	e.ProjectID = in.ProjectID
	e.Amount = in.Amount
	e.Description = in.Description
	e.Date = in.Date
	e.Category = in.Category
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkProjectRef(ctx, userID, e.ProjectID); err != nil {
		return nil, err
	}
	if err := s.storage.UpdateIncomeEntry(ctx, e); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, userID, amqp.ReasonIncomeChanged)
	return e, nil
}

func (s *EntryService) DeleteIncome(ctx context.Context, userID, id string) error {
	if err := s.storage.SoftDeleteIncomeEntry(ctx, userID, id); err != nil {
		return err
	}
	s.afterWrite(ctx, userID, amqp.ReasonIncomeChanged)
	return nil
}

func (s *EntryService) CreateExpense(ctx context.Context, userID string, in EntryInput) (*core.ExpenseEntry, error) {
	e := &core.ExpenseEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		ProjectID:   in.ProjectID,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        in.Date,
		Category:    in.Category,
		ReceiptURL:  in.ReceiptURL,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkProjectRef(ctx, userID, e.ProjectID); err != nil {
		return nil, err
	}
	if err := s.storage.CreateExpenseEntry(ctx, e); err != nil {
		return nil, err
	}
	s.invalidateOnly(userID)
	return e, nil
}

func (s *EntryService) GetExpense(ctx context.Context, userID, id string) (*ExpenseDetail, error) {
	e, err := s.storage.GetExpenseEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	d := &ExpenseDetail{Entry: *e, ProjectName: core.UnknownProjectName, ClientName: core.UnknownClientName}
	if p, err := s.storage.GetProject(ctx, userID, e.ProjectID); err == nil {
		d.ProjectName, d.ClientName = p.Name, p.ClientName
	}
	return d, nil
}

func (s *EntryService) ListExpenses(ctx context.Context, userID string, opts ListOptions) ([]core.ExpenseEntry, query.Pagination, error) {
	entries, total, err := s.storage.ListExpenseEntries(ctx, opts.entryQuery(userID, core.ExpenseCategories), opts.page())
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return entries, query.Paginate(total, opts.page()), nil
}

func (s *EntryService) UpdateExpense(ctx context.Context, userID, id string, in EntryInput) (*core.ExpenseEntry, error) {
	e, err := s.storage.GetExpenseEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	e.ProjectID = in.ProjectID
	e.Amount = in.Amount
	e.Description = in.Description
	e.Date = in.Date
	e.Category = in.Category
	e.ReceiptURL = in.ReceiptURL
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkProjectRef(ctx, userID, e.ProjectID); err != nil {
		return nil, err
	}
	if err := s.storage.UpdateExpenseEntry(ctx, e); err != nil {
		return nil, err
	}
	s.invalidateOnly(userID)
	return e, nil
}

func (s *EntryService) DeleteExpense(ctx context.Context, userID, id string) error {
	if err := s.storage.SoftDeleteExpenseEntry(ctx, userID, id); err != nil {
		return err
	}
	s.invalidateOnly(userID)
	return nil
}

// afterWrite drops cached stats and queues a totals recompute. Publish
// failures are logged, never surfaced: the local write already succeeded and
// the totals cache tolerates staleness.
func (s *EntryService) afterWrite(ctx context.Context, userID, reason string) {
	s.invalidateOnly(userID)
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping recompute message", "user_id", userID)
		return
	}
	if err := s.publisher.PublishUserRecompute(ctx, userID, reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish recompute message",
			"user_id", userID, "reason", reason, "error", err)
	}
}

// Expense writes don't feed the user totals cache, so they only invalidate
// stats.
func (s *EntryService) invalidateOnly(userID string) {
	if s.stats != nil {
		s.stats.Invalidate(userID)
	}
}
