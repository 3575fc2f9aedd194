package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"chat-assistant-backend/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy to status codes and a short
// generic message. Provider payloads and stack detail never reach clients.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fallback})
	case errors.Is(err, context.Canceled):
		// Client went away; 499 in nginx convention, no JSON body needed.
		w.WriteHeader(499)
	case errors.Is(err, domain.ErrTimeout),
		errors.Is(err, domain.ErrProviderError),
		errors.Is(err, domain.ErrProviderUnavailable):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fallback})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fallback})
	}
}
