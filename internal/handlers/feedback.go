package handlers

import (
	"net/http"

	"tech-hub-backend/internal/service"

	"go.uber.org/zap"
)

type FeedbackHandler struct {
	submission *service.SubmissionService
	query      *service.QueryService
	logger     *zap.Logger
}

func NewFeedbackHandler(submission *service.SubmissionService, query *service.QueryService, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		submission: submission,
		query:      query,
		logger:     logger,
	}
}

// --- POST /feedback ---

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitInput
	if !decodeJSON(w, r, &req) {
		return
	}

	feedback, err := h.submission.Submit(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, feedback)
}

// --- GET /feedback ---

func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	entries, err := h.query.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
