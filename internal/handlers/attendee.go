package handlers

import (
	"net/http"

	"tech-hub-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AttendeeHandler struct {
	registration *service.RegistrationService
	logger       *zap.Logger
}

func NewAttendeeHandler(registration *service.RegistrationService, logger *zap.Logger) *AttendeeHandler {
	return &AttendeeHandler{
		registration: registration,
		logger:       logger,
	}
}

// --- POST /attendees ---

func (h *AttendeeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	attendee, err := h.registration.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, attendee)
}

// --- GET /attendees/{token} ---
// The event scan code answers {"isNewAttendee": true} so the client can open
// the registration form; any other value is an attendee token.

func (h *AttendeeHandler) GetByToken(w http.ResponseWriter, r *http.Request) {
	result, err := h.registration.Scan(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if result.NewAttendee {
		writeJSON(w, http.StatusOK, map[string]bool{"isNewAttendee": true})
		return
	}
	writeJSON(w, http.StatusOK, result.Attendee)
}
