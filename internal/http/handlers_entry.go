package http

import (
	"net/http"

	"gigbook/internal/middleware/auth"
	"gigbook/internal/services"
)

type entryRequest struct {
	ProjectID   string `json:"projectId"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	ReceiptURL  string `json:"receiptUrl"`
}

func (req entryRequest) toInput() (services.EntryInput, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return services.EntryInput{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return services.EntryInput{}, err
	}
	return services.EntryInput{
		ProjectID:   req.ProjectID,
		Amount:      amount,
		Description: req.Description,
		Date:        date,
		Category:    req.Category,
		ReceiptURL:  req.ReceiptURL,
	}, nil
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	e, err := s.svc.Entries.CreateIncome(r.Context(), auth.UserID(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIncomeView(e))
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Entries.GetIncome(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIncomeDetailView(d))
}

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entries, pg, err := s.svc.Entries.ListIncome(r.Context(), auth.UserID(r.Context()), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, toIncomeViews(entries), pg)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	e, err := s.svc.Entries.UpdateIncome(r.Context(), auth.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIncomeView(e))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Entries.DeleteIncome(r.Context(), auth.UserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	e, err := s.svc.Entries.CreateExpense(r.Context(), auth.UserID(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseView(e))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Entries.GetExpense(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDetailView(d))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entries, pg, err := s.svc.Entries.ListExpenses(r.Context(), auth.UserID(r.Context()), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, toExpenseViews(entries), pg)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	e, err := s.svc.Entries.UpdateExpense(r.Context(), auth.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseView(e))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Entries.DeleteExpense(r.Context(), auth.UserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
