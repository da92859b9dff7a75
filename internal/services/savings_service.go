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

type GoalInput struct {
	Title         string
	TargetAmount  core.Money
	CurrentAmount core.Money
	Deadline      time.Time
	Category      string
	Priority      core.Priority
	Cadence       core.Cadence
}

type SavingsService struct {
	storage   *storage.SQLiteRepository
	publisher RecomputePublisher
	stats     StatsInvalidator
	nowFn     func() time.Time
}

func NewSavingsService(storage *storage.SQLiteRepository, publisher RecomputePublisher, stats StatsInvalidator) *SavingsService {
	return &SavingsService{storage: storage, publisher: publisher, stats: stats, nowFn: time.Now}
}

func (s *SavingsService) Create(ctx context.Context, userID string, in GoalInput) (*core.SavingsGoal, error) {
	g := &core.SavingsGoal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         in.Title,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Deadline:      in.Deadline,
		Category:      in.Category,
		Priority:      in.Priority,
		Cadence:       in.Cadence,
	}
	if g.Priority == "" {
		g.Priority = core.PriorityMedium
	}
	if g.Cadence == "" {
		g.Cadence = core.CadenceMonthly
	}
	if err := g.Validate(s.nowFn()); err != nil {
		return nil, err
	}
	// A goal seeded at or past its target is born completed.
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
		g.MarkCompleted()
	}
	if err := s.storage.CreateSavingsGoal(ctx, g); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, userID)
	return g, nil
}

func (s *SavingsService) Get(ctx context.Context, userID, id string) (*core.SavingsGoal, error) {
	return s.storage.GetSavingsGoal(ctx, userID, id)
}

func (s *SavingsService) List(ctx context.Context, userID string, opts ListOptions) ([]core.SavingsGoal, query.Pagination, error) {
	goals, total, err := s.storage.ListSavingsGoals(ctx, opts.goalQuery(userID), opts.page())
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return goals, query.Paginate(total, opts.page()), nil
}

func (s *SavingsService) Update(ctx context.Context, userID, id string, in GoalInput) (*core.SavingsGoal, error) {
	g, err := s.storage.GetSavingsGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if !in.Deadline.Equal(g.Deadline) {
		if err := g.UpdateDeadline(in.Deadline, s.nowFn()); err != nil {
			return nil, err
		}
	}
	g.Title = in.Title
	g.TargetAmount = in.TargetAmount
	g.CurrentAmount = in.CurrentAmount
	g.Category = in.Category
	g.Priority = in.Priority
	g.Cadence = in.Cadence
	if g.TargetAmount.Cents < 1 {
		return nil, core.Invalid("target amount must be at least 1")
	}
	if g.CurrentAmount.Cents < 0 {
		return nil, core.Invalid("current amount cannot be negative")
	}
	if !core.SavingsCategories[g.Category] {
		return nil, core.Invalid("invalid savings category")
	}
	if !g.Priority.Valid() {
		return nil, core.Invalid("invalid priority")
	}
	if !g.Cadence.Valid() {
		return nil, core.Invalid("invalid cadence")
	}
	// Persisting with current >= target completes; completion never reverts
	// here even if amounts dropped below target.
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
		g.MarkCompleted()
	}
	if err := s.storage.UpdateSavingsGoal(ctx, g); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, userID)
	return g, nil
}

func (s *SavingsService) Delete(ctx context.Context, userID, id string) error {
	if err := s.storage.SoftDeleteSavingsGoal(ctx, userID, id); err != nil {
		return err
	}
	s.afterWrite(ctx, userID)
	return nil
}

func (s *SavingsService) AddProgress(ctx context.Context, userID, id string, amount core.Money) (*core.SavingsGoal, error) {
	g, err := s.storage.GetSavingsGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := g.AddProgress(amount); err != nil {
		return nil, err
	}
	if err := s.storage.UpdateSavingsGoal(ctx, g); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, userID)
	return g, nil
}

func (s *SavingsService) SubtractProgress(ctx context.Context, userID, id string, amount core.Money) (*core.SavingsGoal, error) {
	g, err := s.storage.GetSavingsGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := g.SubtractProgress(amount); err != nil {
		return nil, err
	}
	if err := s.storage.UpdateSavingsGoal(ctx, g); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, userID)
	return g, nil
}

func (s *SavingsService) MarkCompleted(ctx context.Context, userID, id string) (*core.SavingsGoal, error) {
	return s.mark(ctx, userID, id, func(g *core.SavingsGoal) { g.MarkCompleted() })
}

// MarkActive is the only path from completed back to active; nothing
// automatic triggers it.
func (s *SavingsService) MarkActive(ctx context.Context, userID, id string) (*core.SavingsGoal, error) {
	return s.mark(ctx, userID, id, func(g *core.SavingsGoal) { g.MarkActive() })
}

func (s *SavingsService) mark(ctx context.Context, userID, id string, apply func(*core.SavingsGoal)) (*core.SavingsGoal, error) {
	g, err := s.storage.GetSavingsGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	apply(g)
	if err := s.storage.UpdateSavingsGoal(ctx, g); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, userID)
	return g, nil
}

// ListExpiringSoon returns incomplete active goals whose deadline falls
// within the window. Expiry is computed per request, never stored.
func (s *SavingsService) ListExpiringSoon(ctx context.Context, userID string, window time.Duration) ([]core.SavingsGoal, error) {
	goals, err := s.storage.ListAllSavingsGoals(ctx, query.ForOwner(userID))
	if err != nil {
		return nil, err
	}
	now := s.nowFn()
	out := make([]core.SavingsGoal, 0)
	for _, g := range goals {
		if g.ExpiringSoon(now, window) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *SavingsService) afterWrite(ctx context.Context, userID string) {
	if s.stats != nil {
		s.stats.Invalidate(userID)
	}
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping recompute message", "user_id", userID)
		return
	}
	if err := s.publisher.PublishUserRecompute(ctx, userID, amqp.ReasonSavingsChanged); err != nil {
		slog.ErrorContext(ctx, "Failed to publish recompute message",
			"user_id", userID, "error", err)
	}
}
