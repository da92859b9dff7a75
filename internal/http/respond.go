package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"gigbook/internal/core"
	"gigbook/internal/log"
	"gigbook/internal/query"
)

type envelope struct {
	Data       any               `json:"data,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeList(w http.ResponseWriter, data any, pg query.Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(envelope{Data: data, Pagination: &pg}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps a domain error to its transport status. Internal failures
// are logged with detail but reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := core.KindOf(err)
	status := statusFor(kind)
	msg := err.Error()
	if kind == core.KindInternal {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(envelope{Error: msg}); encErr != nil {
		slog.Error("Failed to encode error response", "error", encErr)
	}
}

func statusFor(kind core.Kind) int {
	switch kind {
	case core.KindInvalidInput:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindConflict:
		return http.StatusConflict
	case core.KindUnauthorized:
		return http.StatusUnauthorized
	case core.KindInsufficientProgress:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
