package http

import (
	"time"

	"gigbook/internal/core"
	"gigbook/internal/services"
)

// Amounts cross the wire as decimal strings in both directions, so clients
// never handle float cents.

const dateLayout = "2006-01-02"

type userView struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Currency     string `json:"currency"`
	TotalIncome  string `json:"totalIncome"`
	TotalSavings string `json:"totalSavings"`
	CreatedAt    string `json:"createdAt"`
}

func toUserView(u *core.User) userView {
	return userView{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Currency:     u.Currency,
		TotalIncome:  u.TotalIncome.String(),
		TotalSavings: u.TotalSavings.String(),
		CreatedAt:    u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type projectView struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	ClientName       string  `json:"clientName"`
	ExpectedPayment  string  `json:"expectedPayment"`
	Status           string  `json:"status"`
	BudgetAllocation float64 `json:"budgetAllocation"`
	CreatedDate      string  `json:"createdDate"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

func toProjectView(p *core.Project) projectView {
	return projectView{
		ID:               p.ID,
		Name:             p.Name,
		ClientName:       p.ClientName,
		ExpectedPayment:  p.ExpectedPayment.String(),
		Status:           string(p.Status),
		BudgetAllocation: p.BudgetAllocation,
		CreatedDate:      p.CreatedDate.UTC().Format(dateLayout),
		CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toProjectViews(ps []core.Project) []projectView {
	out := make([]projectView, 0, len(ps))
	for i := range ps {
		out = append(out, toProjectView(&ps[i]))
	}
	return out
}

type entryView struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	ReceiptURL  string `json:"receiptUrl,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toIncomeView(e *core.IncomeEntry) entryView {
	return entryView{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Amount:      e.Amount.String(),
		Description: e.Description,
		Date:        e.Date.UTC().Format(dateLayout),
		Category:    e.Category,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toIncomeDetailView(d *services.IncomeDetail) entryView {
	v := toIncomeView(&d.Entry)
	v.ProjectName = d.ProjectName
	v.ClientName = d.ClientName
	return v
}

func toIncomeViews(es []core.IncomeEntry) []entryView {
	out := make([]entryView, 0, len(es))
	for i := range es {
		out = append(out, toIncomeView(&es[i]))
	}
	return out
}

func toExpenseView(e *core.ExpenseEntry) entryView {
	return entryView{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Amount:      e.Amount.String(),
		Description: e.Description,
		Date:        e.Date.UTC().Format(dateLayout),
		Category:    e.Category,
		ReceiptURL:  e.ReceiptURL,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toExpenseDetailView(d *services.ExpenseDetail) entryView {
	v := toExpenseView(&d.Entry)
	v.ProjectName = d.ProjectName
	v.ClientName = d.ClientName
	return v
}

func toExpenseViews(es []core.ExpenseEntry) []entryView {
	out := make([]entryView, 0, len(es))
	for i := range es {
		out = append(out, toExpenseView(&es[i]))
	}
	return out
}

type goalView struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	TargetAmount  string  `json:"targetAmount"`
	CurrentAmount string  `json:"currentAmount"`
	Progress      float64 `json:"progress"`
	Deadline      string  `json:"deadline"`
	Category      string  `json:"category"`
	Priority      string  `json:"priority"`
	Cadence       string  `json:"cadence"`
	IsCompleted   bool    `json:"isCompleted"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func toGoalView(g *core.SavingsGoal) goalView {
	return goalView{
		ID:            g.ID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount.String(),
		CurrentAmount: g.CurrentAmount.String(),
		Progress:      g.Progress(),
		Deadline:      g.Deadline.UTC().Format(dateLayout),
		Category:      g.Category,
		Priority:      string(g.Priority),
		Cadence:       string(g.Cadence),
		IsCompleted:   g.IsCompleted,
		CreatedAt:     g.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     g.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toGoalViews(gs []core.SavingsGoal) []goalView {
	out := make([]goalView, 0, len(gs))
	for i := range gs {
		out = append(out, toGoalView(&gs[i]))
	}
	return out
}

type entryStatsView struct {
	Total        string            `json:"total"`
	Count        int               `json:"count"`
	Average      string            `json:"average"`
	ByCategory   map[string]string `json:"byCategory"`
	MonthlyTrend []monthBucketView `json:"monthlyTrend"`
}

type monthBucketView struct {
	Month  string `json:"month"`
	Amount string `json:"amount"`
	Count  int    `json:"count"`
}

func toEntryStatsView(s *services.EntryStats) entryStatsView {
	byCat := make(map[string]string, len(s.ByCategory))
	for k, v := range s.ByCategory {
		byCat[k] = v.String()
	}
	trend := make([]monthBucketView, 0, len(s.MonthlyTrend))
	for _, b := range s.MonthlyTrend {
		trend = append(trend, monthBucketView{Month: b.Month, Amount: b.Amount.String(), Count: b.Count})
	}
	return entryStatsView{
		Total:        s.Total.String(),
		Count:        s.Count,
		Average:      s.Average.String(),
		ByCategory:   byCat,
		MonthlyTrend: trend,
	}
}

type breakdownView struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	ClientName  string `json:"clientName"`
	TotalAmount string `json:"totalAmount"`
	EntryCount  int    `json:"entryCount"`
}

func toBreakdownViews(bs []core.ProjectBreakdown) []breakdownView {
	out := make([]breakdownView, 0, len(bs))
	for _, b := range bs {
		out = append(out, breakdownView{
			ProjectID:   b.ProjectID,
			ProjectName: b.ProjectName,
			ClientName:  b.ClientName,
			TotalAmount: b.TotalAmount.String(),
			EntryCount:  b.EntryCount,
		})
	}
	return out
}

type savingsStatsView struct {
	TotalGoals         int     `json:"totalGoals"`
	ActiveGoals        int     `json:"activeGoals"`
	CompletedGoals     int     `json:"completedGoals"`
	ExpiringSoonCount  int     `json:"expiringSoonCount"`
	TotalTargetAmount  string  `json:"totalTargetAmount"`
	TotalCurrentAmount string  `json:"totalCurrentAmount"`
	TotalProgress      float64 `json:"totalProgress"`
}

func toSavingsStatsView(s *core.SavingsStats) savingsStatsView {
	return savingsStatsView{
		TotalGoals:         s.TotalGoals,
		ActiveGoals:        s.ActiveGoals,
		CompletedGoals:     s.CompletedGoals,
		ExpiringSoonCount:  s.ExpiringSoonCount,
		TotalTargetAmount:  s.TotalTargetAmount.String(),
		TotalCurrentAmount: s.TotalCurrentAmount.String(),
		TotalProgress:      s.TotalProgress,
	}
}
