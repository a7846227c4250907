package service

import (
	"context"
	"fmt"

	"tech-hub-backend/internal/models"
)

type QueryService struct {
	feedback FeedbackStore
}

func NewQueryService(feedback FeedbackStore) *QueryService {
	return &QueryService{feedback: feedback}
}

// ListAll returns every feedback with its attendee's name, in storage order.
func (s *QueryService) ListAll(ctx context.Context) ([]models.FeedbackEntry, error) {
	entries, err := s.feedback.ListWithAttendee(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return entries, nil
}
