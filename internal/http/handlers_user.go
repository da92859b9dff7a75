package http

import (
	"net/http"

	"gigbook/internal/middleware/auth"
	"gigbook/internal/services"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := s.svc.Users.Create(r.Context(), services.UserInput{
		Email:    req.Email,
		Name:     req.Name,
		Currency: req.Currency,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserView(u))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Users.Get(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(u))
}
