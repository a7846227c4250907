package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tech-hub-backend/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service errors to responses. Conflicts answer 400,
// and so does any store failure, matching what clients of this API expect.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "attendee not found")
	case errors.Is(err, service.ErrFeedbackAlreadySubmitted):
		writeError(w, http.StatusBadRequest, "feedback already submitted")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "email already registered")
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusBadRequest, "scan code already in use")
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, "request could not be completed")
	}
}
