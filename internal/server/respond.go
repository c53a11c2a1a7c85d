package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hatmapp/hatm/internal/service"
	"github.com/hatmapp/hatm/pkg/api"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError writes the uniform {"detail": ...} error envelope.
func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, api.Error{Detail: detail})
}

// respondServiceError maps domain errors to HTTP statuses. Anything
// unrecognized is a storage or programming failure and stays opaque.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrHatmNotFound),
		errors.Is(err, service.ErrJuzNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotMember),
		errors.Is(err, service.ErrNotYourJuz):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidInviteCode),
		errors.Is(err, service.ErrActiveHatmExists),
		errors.Is(err, service.ErrHatmNotPending),
		errors.Is(err, service.ErrHatmNotStarted),
		errors.Is(err, service.ErrHatmCompleted),
		errors.Is(err, service.ErrNoMembers):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody parses and validates a JSON request body.
func (s *Server) decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	if err := s.validate.Struct(v); err != nil {
		return err
	}
	return nil
}
