package http

import (
	"net/http"
	"time"

	"gigbook/internal/core"
	"gigbook/internal/middleware/auth"
	"gigbook/internal/services"
)

type projectRequest struct {
	Name             string  `json:"name"`
	ClientName       string  `json:"clientName"`
	ExpectedPayment  string  `json:"expectedPayment"`
	Status           string  `json:"status"`
	BudgetAllocation float64 `json:"budgetAllocation"`
	CreatedDate      string  `json:"createdDate"`
}

func (req projectRequest) toInput() (services.ProjectInput, error) {
	in := services.ProjectInput{
		Name:             req.Name,
		ClientName:       req.ClientName,
		Status:           core.ProjectStatus(req.Status),
		BudgetAllocation: req.BudgetAllocation,
		CreatedDate:      time.Now().UTC(),
	}
	if req.ExpectedPayment != "" {
		amount, err := parseAmount(req.ExpectedPayment)
		if err != nil {
			return in, err
		}
		in.ExpectedPayment = amount
	}
	if req.CreatedDate != "" {
		d, err := parseDate(req.CreatedDate)
		if err != nil {
			return in, err
		}
		in.CreatedDate = d
	}
	return in, nil
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := s.svc.Projects.Create(r.Context(), auth.UserID(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectView(p))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.Get(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(p))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	projects, pg, err := s.svc.Projects.List(r.Context(), auth.UserID(r.Context()), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, toProjectViews(projects), pg)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := s.svc.Projects.Update(r.Context(), auth.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(p))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Projects.Delete(r.Context(), auth.UserID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
