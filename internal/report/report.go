// Package report defines the outbound port for exporting per-user monthly
// summaries, with adapters under report/memory and report/google.
package report

import (
	"context"
	"time"

	"gigbook/internal/core"
)

// MonthlyReport is one exported row: a user's income, spending and savings
// position for a single "YYYY-MM" month.
type MonthlyReport struct {
	UserID          string
	UserEmail       string
	Month           string
	IncomeTotal     core.Money
	ExpenseTotal    core.Money
	Net             core.Money
	SavingsProgress float64
	GeneratedAt     time.Time
}

// Writer is the port for outbound report sinks.
type Writer interface {
	// Append writes one report row and returns a sink-specific row reference.
	Append(ctx context.Context, r MonthlyReport) (rowRef string, err error)
}
