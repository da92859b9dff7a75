package core

import (
	"testing"
	"time"
)

func validIncome() IncomeEntry {
	return IncomeEntry{
		Amount:      Money{Cents: 10000},
		Description: "milestone payment",
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:    "project-payment",
		ProjectID:   "p1",
	}
}

func TestIncomeEntryValidate(t *testing.T) {
	if err := validIncome().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []func(*IncomeEntry){
		func(e *IncomeEntry) { e.Amount = Money{} },
		func(e *IncomeEntry) { e.Amount = Money{Cents: -1} },
		func(e *IncomeEntry) { e.Description = "  " },
		func(e *IncomeEntry) { e.Date = time.Time{} },
		func(e *IncomeEntry) { e.Category = "salary" },
		func(e *IncomeEntry) { e.ProjectID = "" },
	}
	for i, mutate := range bads {
		e := validIncome()
		mutate(&e)
		err := e.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if KindOf(err) != KindInvalidInput {
			t.Fatalf("case %d expected invalid input, got %v", i, KindOf(err))
		}
	}
}

func TestExpenseEntryValidate(t *testing.T) {
	e := ExpenseEntry{
		Amount:      Money{Cents: 2500},
		Description: "editor license",
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Category:    "software",
		ProjectID:   "p1",
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	e.Category = "groceries"
	if err := e.Validate(); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestProjectValidate(t *testing.T) {
	p := Project{
		Name:             "Site redesign",
		ClientName:       "Acme",
		ExpectedPayment:  Money{Cents: 500000},
		Status:           StatusActive,
		BudgetAllocation: 40,
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Project)
	}{
		{"empty name", func(p *Project) { p.Name = "" }},
		{"empty client", func(p *Project) { p.ClientName = "" }},
		{"negative payment", func(p *Project) { p.ExpectedPayment = Money{Cents: -1} }},
		{"bad status", func(p *Project) { p.Status = "paused" }},
		{"allocation over 100", func(p *Project) { p.BudgetAllocation = 120 }},
		{"allocation negative", func(p *Project) { p.BudgetAllocation = -5 }},
	}
	for _, tc := range cases {
		bad := p
		tc.mutate(&bad)
		if err := bad.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	g := SavingsGoal{
		Title:        "Quarterly taxes",
		TargetAmount: Money{Cents: 300000},
		Deadline:     now.AddDate(0, 3, 0),
		Category:     "taxes",
		Priority:     PriorityHigh,
		Cadence:      CadenceMonthly,
	}
	if err := g.Validate(now); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	past := g
	past.Deadline = now.AddDate(0, 0, -1)
	if err := past.Validate(now); err == nil {
		t.Fatal("expected error for past deadline")
	}

	exactlyNow := g
	exactlyNow.Deadline = now
	if err := exactlyNow.Validate(now); err == nil {
		t.Fatal("deadline equal to now must be rejected, rule is strictly future")
	}

	tiny := g
	tiny.TargetAmount = Money{}
	if err := tiny.Validate(now); err == nil {
		t.Fatal("expected error for zero target")
	}
}
