package core

import (
	"strings"
	"time"
)

const (
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
	StatusOnHold    ProjectStatus = "on-hold"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

type (
	ProjectStatus string

	Priority string

	// Cadence is the contribution rhythm of a savings goal.
	Cadence string

	User struct {
		ID       string
		Email    string
		Name     string
		Currency string
		// Cached rollups, refreshed by the recompute worker rather than
		// maintained inline on every entry write.
		TotalIncome  Money
		TotalSavings Money
		IsActive     bool
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	Project struct {
		ID              string
		UserID          string
		Name            string
		ClientName      string
		ExpectedPayment Money
		Status          ProjectStatus
		// BudgetAllocation is a percentage of overall budget, 0-100.
		BudgetAllocation float64
		CreatedDate      time.Time
		IsActive         bool
		CreatedAt        time.Time
		UpdatedAt        time.Time
	}

	IncomeEntry struct {
		ID          string
		UserID      string
		ProjectID   string
		Amount      Money
		Description string
		Date        time.Time
		Category    string
		IsActive    bool
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	ExpenseEntry struct {
		ID          string
		UserID      string
		ProjectID   string
		Amount      Money
		Description string
		Date        time.Time
		Category    string
		ReceiptURL  string
		IsActive    bool
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	SavingsGoal struct {
		ID            string
		UserID        string
		Title         string
		TargetAmount  Money
		CurrentAmount Money
		Deadline      time.Time
		Category      string
		Priority      Priority
		Cadence       Cadence
		IsCompleted   bool
		IsActive      bool
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}
)

// Closed category sets. Values outside these sets are rejected at write time
// and silently ignored when supplied as list filters.
var (
	IncomeCategories = map[string]bool{
		"project-payment": true,
		"bonus":           true,
		"royalty":         true,
		"consulting":      true,
		"other":           true,
	}

	ExpenseCategories = map[string]bool{
		"software":  true,
		"equipment": true,
		"travel":    true,
		"office":    true,
		"marketing": true,
		"education": true,
		"other":     true,
	}

	SavingsCategories = map[string]bool{
		"emergency-fund": true,
		"equipment":      true,
		"taxes":          true,
		"retirement":     true,
		"vacation":       true,
		"other":          true,
	}
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (c Cadence) Valid() bool {
	return c == CadenceMonthly || c == CadenceYearly
}

const maxDescriptionLen = 200

func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Invalid("project name is required")
	}
	if strings.TrimSpace(p.ClientName) == "" {
		return Invalid("client name is required")
	}
	if p.ExpectedPayment.Cents < 0 {
		return Invalid("expected payment cannot be negative")
	}
	if !p.Status.Valid() {
		return Invalid("invalid project status")
	}
	if p.BudgetAllocation < 0 || p.BudgetAllocation > 100 {
		return Invalid("budget allocation must be between 0 and 100")
	}
	return nil
}

func (e IncomeEntry) Validate() error {
	if e.Amount.Cents <= 0 {
		return Invalid("amount must be positive")
	}
	if strings.TrimSpace(e.Description) == "" {
		return Invalid("description is required")
	}
	if len(e.Description) > maxDescriptionLen {
		return Invalid("description too long (max 200 characters)")
	}
	if e.Date.IsZero() {
		return Invalid("date is required")
	}
	if !IncomeCategories[e.Category] {
		return Invalid("invalid income category")
	}
	if strings.TrimSpace(e.ProjectID) == "" {
		return Invalid("project id is required")
	}
	return nil
}

func (e ExpenseEntry) Validate() error {
	if e.Amount.Cents <= 0 {
		return Invalid("amount must be positive")
	}
	if strings.TrimSpace(e.Description) == "" {
		return Invalid("description is required")
	}
	if len(e.Description) > maxDescriptionLen {
		return Invalid("description too long (max 200 characters)")
	}
	if e.Date.IsZero() {
		return Invalid("date is required")
	}
	if !ExpenseCategories[e.Category] {
		return Invalid("invalid expense category")
	}
	if strings.TrimSpace(e.ProjectID) == "" {
		return Invalid("project id is required")
	}
	return nil
}

// Validate checks a goal at creation time. The future-deadline rule applies
// only here and on explicit deadline updates, never on reads.
func (g SavingsGoal) Validate(now time.Time) error {
	if strings.TrimSpace(g.Title) == "" {
		return Invalid("title is required")
	}
	if g.TargetAmount.Cents < 1 {
		return Invalid("target amount must be at least 1")
	}
	if g.CurrentAmount.Cents < 0 {
		return Invalid("current amount cannot be negative")
	}
	if !g.Deadline.After(now) {
		return Invalid("deadline must be in the future")
	}
	if !SavingsCategories[g.Category] {
		return Invalid("invalid savings category")
	}
	if !g.Priority.Valid() {
		return Invalid("invalid priority")
	}
	if !g.Cadence.Valid() {
		return Invalid("invalid cadence")
	}
	return nil
}

// Sample converts an income entry to its aggregation view.
func (e IncomeEntry) Sample() EntrySample {
	return EntrySample{Amount: e.Amount, Date: e.Date, Category: e.Category, ProjectID: e.ProjectID}
}

// Sample converts an expense entry to its aggregation view.
func (e ExpenseEntry) Sample() EntrySample {
	return EntrySample{Amount: e.Amount, Date: e.Date, Category: e.Category, ProjectID: e.ProjectID}
}
