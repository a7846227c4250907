package handlers

import (
	"net/http"
	"strconv"

	"tech-hub-backend/internal/qrcode"
	"tech-hub-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QRHandler struct {
	registration *service.RegistrationService
	logger       *zap.Logger
}

func NewQRHandler(registration *service.RegistrationService, logger *zap.Logger) *QRHandler {
	return &QRHandler{
		registration: registration,
		logger:       logger,
	}
}

// --- GET /attendees/{token}/qr ---

func (h *QRHandler) AttendeeCode(w http.ResponseWriter, r *http.Request) {
	size, err := qrcode.ParseSize(r.URL.Query().Get("size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	attendee, err := h.registration.LookupByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.writePNG(w, attendee.Token, size)
}

// --- GET /event/qr ---

func (h *QRHandler) EventCode(w http.ResponseWriter, r *http.Request) {
	size, err := qrcode.ParseSize(r.URL.Query().Get("size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writePNG(w, h.registration.EventCode(), size)
}

func (h *QRHandler) writePNG(w http.ResponseWriter, content string, size int) {
	data, err := qrcode.PNG(content, size)
	if err != nil {
		h.logger.Error("failed to render qr code", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render qr code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
