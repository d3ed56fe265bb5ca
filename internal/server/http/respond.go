package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/eklimov/taskdeck/internal/errs"
)

// envelope is the uniform success response shape.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Count   *int `json:"count,omitempty"`
}

type errEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondData writes a success envelope.
func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// respondList writes a success envelope with a count.
func respondList(w http.ResponseWriter, status int, data any, count int) {
	writeJSON(w, status, envelope{Success: true, Data: data, Count: &count})
}

// respondError maps sentinel errors to HTTP statuses. Unexpected failures
// are logged with detail and surfaced as a generic 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errEnvelope{Error: err.Error()})
	case errors.Is(err, errs.ErrUnauthorized), errors.Is(err, errs.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errEnvelope{Error: "not authorized to access this route"})
	case errors.Is(err, errs.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errEnvelope{Error: "invalid credentials"})
	case errors.Is(err, errs.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errEnvelope{Error: "forbidden"})
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errEnvelope{Error: "resource not found"})
	case errors.Is(err, errs.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errEnvelope{Error: "already exists"})
	case errors.Is(err, errs.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errEnvelope{Error: "too many attempts, try again later"})
	default:
		s.log.Error("internal error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errEnvelope{Error: "internal server error"})
	}
}

// decodeJSON parses a request body into dst, mapping failures to ErrValidation.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.ErrValidation
	}
	return nil
}
