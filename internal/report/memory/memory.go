// Package memory is an in-process report sink used in development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"gigbook/internal/report"
)

type Sink struct {
	mu   sync.Mutex
	rows []report.MonthlyReport
}

func New() *Sink {
	return &Sink{}
}

var _ report.Writer = (*Sink)(nil)

// Append stores the report and returns a synthetic row reference.
func (s *Sink) Append(_ context.Context, r report.MonthlyReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, r)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Sink) Rows() []report.MonthlyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]report.MonthlyReport, len(s.rows))
	copy(out, s.rows)
	return out
}
