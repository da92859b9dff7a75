package http

import (
	"context"
	"net/http"

	"gigbook/internal/core"
	"gigbook/internal/middleware/auth"
	"gigbook/internal/services"
)

func (s *Server) handleIncomeStats(w http.ResponseWriter, r *http.Request) {
	s.handleEntryStats(w, r, s.svc.Stats.IncomeStats)
}

func (s *Server) handleExpenseStats(w http.ResponseWriter, r *http.Request) {
	s.handleEntryStats(w, r, s.svc.Stats.ExpenseStats)
}

func (s *Server) handleEntryStats(w http.ResponseWriter, r *http.Request,
	compute func(ctx context.Context, userID string, opts services.ListOptions) (*services.EntryStats, error)) {

	opts, err := parseListOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := compute(r.Context(), auth.UserID(r.Context()), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryStatsView(stats))
}

func (s *Server) handleIncomeByProject(w http.ResponseWriter, r *http.Request) {
	s.handleByProject(w, r, s.svc.Stats.IncomeByProject)
}

func (s *Server) handleExpenseByProject(w http.ResponseWriter, r *http.Request) {
	s.handleByProject(w, r, s.svc.Stats.ExpenseByProject)
}

func (s *Server) handleByProject(w http.ResponseWriter, r *http.Request,
	compute func(ctx context.Context, userID string, opts services.ListOptions) ([]core.ProjectBreakdown, error)) {

	opts, err := parseListOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	breakdown, err := compute(r.Context(), auth.UserID(r.Context()), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBreakdownViews(breakdown))
}

func (s *Server) handleSavingsStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats.SavingsStats(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSavingsStatsView(stats))
}
