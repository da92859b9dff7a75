package services

import (
	"context"
	"fmt"
	"time"

	"gigbook/internal/cache"
	"gigbook/internal/core"
	"gigbook/internal/query"
	"gigbook/internal/storage"
)

// EntryStats is the income/expense statistics object exposed to callers.
type EntryStats struct {
	Total        core.Money
	Count        int
	Average      core.Money
	ByCategory   map[string]core.Money
	MonthlyTrend []core.MonthBucket
}

// StatsService computes rollups over owner-scoped record sets. Results are
// memoized per user in an LRU with TTL; every write by a user drops that
// user's entries, so staleness is bounded by the TTL even if an invalidation
// is missed.
type StatsService struct {
	storage        *storage.SQLiteRepository
	cache          *cache.LRUCache[any]
	expiringWindow time.Duration
}

func NewStatsService(storage *storage.SQLiteRepository, c *cache.LRUCache[any], expiringWindow time.Duration) *StatsService {
	return &StatsService{storage: storage, cache: c, expiringWindow: expiringWindow}
}

// Invalidate implements StatsInvalidator.
func (s *StatsService) Invalidate(userID string) {
	if s.cache != nil {
		s.cache.DeletePrefix(userID + ":")
	}
}

func statsKey(userID, view string, opts ListOptions) string {
	return fmt.Sprintf("%s:%s:%s|%s|%d|%d", userID, view, opts.ProjectID, opts.Category,
		opts.StartDate.Unix(), opts.EndDate.Unix())
}

// IncomeStats summarizes the caller's income entries under the same scoping
// the income list endpoint applies, so both views agree on which records are
// in scope.
func (s *StatsService) IncomeStats(ctx context.Context, userID string, opts ListOptions) (*EntryStats, error) {
	key := statsKey(userID, "income", opts)
	if cached, ok := s.cacheGet(key); ok {
		return cached.(*EntryStats), nil
	}

	samples, err := s.storage.ListIncomeSamples(ctx, opts.entryQuery(userID, core.IncomeCategories))
	if err != nil {
		return nil, err
	}
	stats := buildEntryStats(samples)
	s.cacheSet(key, stats)
	return stats, nil
}

func (s *StatsService) ExpenseStats(ctx context.Context, userID string, opts ListOptions) (*EntryStats, error) {
	key := statsKey(userID, "expense", opts)
	if cached, ok := s.cacheGet(key); ok {
		return cached.(*EntryStats), nil
	}

	samples, err := s.storage.ListExpenseSamples(ctx, opts.entryQuery(userID, core.ExpenseCategories))
	if err != nil {
		return nil, err
	}
	stats := buildEntryStats(samples)
	s.cacheSet(key, stats)
	return stats, nil
}

func buildEntryStats(samples []core.EntrySample) *EntryStats {
	summary := core.Summarize(samples)
	return &EntryStats{
		Total:        summary.Total,
		Count:        summary.Count,
		Average:      summary.Average,
		ByCategory:   core.SumByCategory(samples),
		MonthlyTrend: core.MonthlyTrend(samples),
	}
}

// IncomeByProject aggregates income per project, sorted by total descending,
// with names joined in one batch fetch. Dangling or inactive references show
// the unknown-project placeholders rather than failing the report.
func (s *StatsService) IncomeByProject(ctx context.Context, userID string, opts ListOptions) ([]core.ProjectBreakdown, error) {
	key := statsKey(userID, "income_by_project", opts)
	if cached, ok := s.cacheGet(key); ok {
		return cached.([]core.ProjectBreakdown), nil
	}

	samples, err := s.storage.ListIncomeSamples(ctx, opts.entryQuery(userID, core.IncomeCategories))
	if err != nil {
		return nil, err
	}
	out, err := s.joinProjectNames(ctx, userID, core.SumByProject(samples))
	if err != nil {
		return nil, err
	}
	s.cacheSet(key, out)
	return out, nil
}

func (s *StatsService) ExpenseByProject(ctx context.Context, userID string, opts ListOptions) ([]core.ProjectBreakdown, error) {
	key := statsKey(userID, "expense_by_project", opts)
	if cached, ok := s.cacheGet(key); ok {
		return cached.([]core.ProjectBreakdown), nil
	}

	samples, err := s.storage.ListExpenseSamples(ctx, opts.entryQuery(userID, core.ExpenseCategories))
	if err != nil {
		return nil, err
	}
	out, err := s.joinProjectNames(ctx, userID, core.SumByProject(samples))
	if err != nil {
		return nil, err
	}
	s.cacheSet(key, out)
	return out, nil
}

func (s *StatsService) joinProjectNames(ctx context.Context, userID string, breakdown []core.ProjectBreakdown) ([]core.ProjectBreakdown, error) {
	ids := make([]string, 0, len(breakdown))
	for _, b := range breakdown {
		ids = append(ids, b.ProjectID)
	}
	projects, err := s.storage.GetProjectsByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	for i := range breakdown {
		if p, ok := projects[breakdown[i].ProjectID]; ok {
			breakdown[i].ProjectName = p.Name
			breakdown[i].ClientName = p.ClientName
		} else {
			breakdown[i].ProjectName = core.UnknownProjectName
			breakdown[i].ClientName = core.UnknownClientName
		}
	}
	return breakdown, nil
}

func (s *StatsService) SavingsStats(ctx context.Context, userID string) (*core.SavingsStats, error) {
	key := userID + ":savings_stats:"
	if cached, ok := s.cacheGet(key); ok {
		return cached.(*core.SavingsStats), nil
	}

	goals, err := s.storage.ListAllSavingsGoals(ctx, query.ForOwner(userID))
	if err != nil {
		return nil, err
	}
	stats := core.SummarizeGoals(goals, time.Now(), s.expiringWindow)
	s.cacheSet(key, &stats)
	return &stats, nil
}

func (s *StatsService) cacheGet(key string) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *StatsService) cacheSet(key string, v any) {
	if s.cache != nil {
		s.cache.Set(key, v)
	}
}
