package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gigbook/internal/core"
	"gigbook/internal/middleware/auth"
	"gigbook/internal/services"
)

type goalRequest struct {
	Title         string `json:"title"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	Deadline      string `json:"deadline"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	Cadence       string `json:"cadence"`
}

func (req goalRequest) toInput() (services.GoalInput, error) {
	in := services.GoalInput{
		Title:    req.Title,
		Category: req.Category,
		Priority: core.Priority(req.Priority),
		Cadence:  core.Cadence(req.Cadence),
	}
	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		return in, err
	}
	in.TargetAmount = target

	// Goals may start with zero progress, unlike entries.
	if req.CurrentAmount != "" {
		current, err := parseNonNegativeAmount(req.CurrentAmount)
		if err != nil {
			return in, err
		}
		in.CurrentAmount = current
	}

	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return in, err
	}
	in.Deadline = deadline
	return in, nil
}

type progressRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := s.svc.Savings.Create(r.Context(), auth.UserID(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalView(g))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Savings.Get(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(g))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	goals, pg, err := s.svc.Savings.List(r.Context(), auth.UserID(r.Context()), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, toGoalViews(goals), pg)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := s.svc.Savings.Update(r.Context(), auth.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(g))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Savings.Delete(r.Context(), auth.UserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddProgress(w http.ResponseWriter, r *http.Request) {
	s.handleProgress(w, r, s.svc.Savings.AddProgress)
}

func (s *Server) handleSubtractProgress(w http.ResponseWriter, r *http.Request) {
	s.handleProgress(w, r, s.svc.Savings.SubtractProgress)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, userID, id string, amount core.Money) (*core.SavingsGoal, error)) {

	var req progressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := apply(r.Context(), auth.UserID(r.Context()), r.PathValue("id"), amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(g))
}

func (s *Server) handleMarkCompleted(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Savings.MarkCompleted(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(g))
}

func (s *Server) handleMarkActive(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Savings.MarkActive(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(g))
}

// handleExpiringSoon lists incomplete goals with deadlines inside the window.
// The window defaults to server config and can be overridden with ?days=N.
func (s *Server) handleExpiringSoon(w http.ResponseWriter, r *http.Request) {
	window := s.expiringWindow
	if v := strings.TrimSpace(r.URL.Query().Get("days")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			writeError(w, r, core.Invalid("days must be between 1 and 365"))
			return
		}
		window = time.Duration(n) * 24 * time.Hour
	}

	goals, err := s.svc.Savings.ListExpiringSoon(r.Context(), auth.UserID(r.Context()), window)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalViews(goals))
}
