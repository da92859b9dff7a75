package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigbook/internal/core"
	"gigbook/internal/query"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "gigbook_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository, email string) *core.User {
	t.Helper()
	u := &core.User{ID: uuid.NewString(), Email: email, Name: "Test User", Currency: "EUR"}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func seedProject(t *testing.T, repo *SQLiteRepository, userID string) *core.Project {
	t.Helper()
	p := &core.Project{
		ID:              uuid.NewString(),
		UserID:          userID,
		Name:            "Site redesign",
		ClientName:      "Acme",
		ExpectedPayment: core.Money{Cents: 500000},
		Status:          core.StatusActive,
	}
	require.NoError(t, repo.CreateProject(context.Background(), p))
	return p
}

func seedIncome(t *testing.T, repo *SQLiteRepository, userID, projectID string, cents int64, date time.Time) *core.IncomeEntry {
	t.Helper()
	e := &core.IncomeEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		ProjectID:   projectID,
		Amount:      core.Money{Cents: cents},
		Description: "payment",
		Date:        date,
		Category:    "project-payment",
	}
	require.NoError(t, repo.CreateIncomeEntry(context.Background(), e))
	return e
}

func TestUserUniqueEmail(t *testing.T) {
	repo := newTestRepo(t)
	seedUser(t, repo, "dup@example.com")

	err := repo.CreateUser(context.Background(), &core.User{ID: uuid.NewString(), Email: "dup@example.com", Name: "Other"})
	require.Error(t, err)
	assert.Equal(t, core.KindConflict, core.KindOf(err))
}

func TestProjectOwnerScoping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "owner@example.com")
	other := seedUser(t, repo, "other@example.com")
	p := seedProject(t, repo, owner.ID)

	got, err := repo.GetProject(ctx, owner.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)

	// Another user's lookup reports NotFound, identical to an absent record.
	_, err = repo.GetProject(ctx, other.ID, p.ID)
	require.Error(t, err)
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}

func TestSoftDeleteInvisibleExceptAdmin(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "owner@example.com")
	p := seedProject(t, repo, owner.ID)
	e := seedIncome(t, repo, owner.ID, p.ID, 10000, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, repo.SoftDeleteIncomeEntry(ctx, owner.ID, e.ID))

	// Standard get is owner-scoped and active-only: NotFound after delete.
	_, err := repo.GetIncomeEntry(ctx, owner.ID, e.ID)
	require.Error(t, err)
	assert.Equal(t, core.KindNotFound, core.KindOf(err))

	// Gone from lists and aggregates too.
	entries, total, err := repo.ListIncomeEntries(ctx, query.ForOwner(owner.ID), query.Page{})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, total)

	samples, err := repo.ListIncomeSamples(ctx, query.ForOwner(owner.ID))
	require.NoError(t, err)
	assert.Empty(t, samples)

	// The row itself survives for administrative paths.
	kept, err := repo.AdminGetIncomeEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, kept.IsActive)
	assert.Equal(t, int64(10000), kept.Amount.Cents)

	// Deleting twice is NotFound, not a silent no-op.
	err = repo.SoftDeleteIncomeEntry(ctx, owner.ID, e.ID)
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}

func TestListIncomePaginationAndSort(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "owner@example.com")
	p := seedProject(t, repo, owner.ID)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seedIncome(t, repo, owner.ID, p.ID, int64(100*(i+1)), base.AddDate(0, 0, i))
	}

	allowed := map[string]string{"date": "entry_date", "amount": "amount_cents"}
	b := query.ForOwner(owner.ID).Sort("amount", "asc", allowed)
	entries, total, err := repo.ListIncomeEntries(ctx, b, query.Page{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, entries, 10)
	assert.Equal(t, int64(1100), entries[0].Amount.Cents)

	pg := query.Paginate(total, query.Page{Page: 2, Limit: 10})
	assert.Equal(t, 3, pg.Pages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	// Page beyond the window: empty slice, not an error.
	entries, total, err = repo.ListIncomeEntries(ctx, query.ForOwner(owner.ID), query.Page{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Empty(t, entries)
}

func TestDateRangeEndOfDay(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "owner@example.com")
	p := seedProject(t, repo, owner.ID)

	seedIncome(t, repo, owner.ID, p.ID, 100, time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC))
	seedIncome(t, repo, owner.ID, p.ID, 200, time.Date(2024, 2, 1, 0, 0, 1, 0, time.UTC))

	b := query.ForOwner(owner.ID).Until(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	entries, total, err := repo.ListIncomeEntries(ctx, b, query.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(100), entries[0].Amount.Cents)
}

func TestGetProjectsByIDsSkipsInactive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "owner@example.com")
	keep := seedProject(t, repo, owner.ID)
	gone := seedProject(t, repo, owner.ID)
	require.NoError(t, repo.SoftDeleteProject(ctx, owner.ID, gone.ID))

	got, err := repo.GetProjectsByIDs(ctx, owner.ID, []string{keep.ID, gone.ID, "dangling"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	_, ok := got[keep.ID]
	assert.True(t, ok)
}

func TestSumActiveTotals(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "owner@example.com")
	p := seedProject(t, repo, owner.ID)

	seedIncome(t, repo, owner.ID, p.ID, 1000, time.Now().UTC())
	dead := seedIncome(t, repo, owner.ID, p.ID, 500, time.Now().UTC())
	require.NoError(t, repo.SoftDeleteIncomeEntry(ctx, owner.ID, dead.ID))

	g := &core.SavingsGoal{
		ID: uuid.NewString(), UserID: owner.ID, Title: "Taxes",
		TargetAmount: core.Money{Cents: 10000}, CurrentAmount: core.Money{Cents: 2500},
		Deadline: time.Now().AddDate(0, 6, 0), Category: "taxes",
		Priority: core.PriorityHigh, Cadence: core.CadenceMonthly,
	}
	require.NoError(t, repo.CreateSavingsGoal(ctx, g))

	income, err := repo.SumActiveIncome(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), income.Cents)

	savings, err := repo.SumActiveSavings(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), savings.Cents)

	require.NoError(t, repo.UpdateUserTotals(ctx, owner.ID, income, savings))
	u, err := repo.GetUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), u.TotalIncome.Cents)
	assert.Equal(t, int64(2500), u.TotalSavings.Cents)
}
