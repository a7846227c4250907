package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tech-hub-backend/internal/live"
	"tech-hub-backend/internal/models"
	"tech-hub-backend/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// FeedbackStore is the feedback store. Create must reject a second feedback
// for the same attendee with a repository.ErrDuplicate.
type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListWithAttendee(ctx context.Context) ([]models.FeedbackEntry, error)
}

type SubmitInput struct {
	AttendeeID   string            `json:"attendeeId" validate:"required"`
	Expectations string            `json:"expectations" validate:"required"`
	Experience   models.Experience `json:"experience" validate:"required,oneof=Excellent Good Fair Poor"`
	KeyTakeaways string            `json:"keyTakeaways" validate:"required"`
	Improvements string            `json:"improvements" validate:"required"`
}

type SubmissionService struct {
	attendees AttendeeStore
	feedback  FeedbackStore
	publisher live.Publisher
	logger    *zap.Logger
}

func NewSubmissionService(attendees AttendeeStore, feedback FeedbackStore, publisher live.Publisher, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		attendees: attendees,
		feedback:  feedback,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit records an attendee's single feedback. Checks run in order: unknown
// attendee, feedback already given, invalid fields. On success the feedback is
// stored, the attendee is flagged, and the feedback is published to live
// viewers in the background.
//
// The feedbacks collection is unique on attendee_id, so two racing submissions
// for one attendee cannot both be stored; the loser gets a conflict.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*models.Feedback, error) {
	in.AttendeeID = strings.TrimSpace(in.AttendeeID)
	in.Expectations = strings.TrimSpace(in.Expectations)
	in.KeyTakeaways = strings.TrimSpace(in.KeyTakeaways)
	in.Improvements = strings.TrimSpace(in.Improvements)

	verr := check(in)
	if verr.has("attendeeId") {
		return nil, verr
	}

	attendeeID, err := bson.ObjectIDFromHex(in.AttendeeID)
	if err != nil {
		// Not an id any attendee could have.
		return nil, ErrNotFound
	}
	attendee, err := s.attendees.FindByID(ctx, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("find attendee: %w", err)
	}
	if attendee == nil {
		return nil, ErrNotFound
	}
	if attendee.HasSubmittedFeedback {
		return nil, ErrFeedbackAlreadySubmitted
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		AttendeeID:   attendee.ID,
		Expectations: in.Expectations,
		Experience:   in.Experience,
		KeyTakeaways: in.KeyTakeaways,
		Improvements: in.Improvements,
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrFeedbackAlreadySubmitted
		}
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	changed, err := s.attendees.MarkFeedbackSubmitted(ctx, attendee.ID)
	if err != nil {
		return nil, fmt.Errorf("mark feedback submitted: %w", err)
	}
	if !changed {
		s.logger.Warn("attendee was already flagged", zap.String("attendee_id", attendee.ID.Hex()))
	}

	s.logger.Info("feedback submitted",
		zap.String("feedback_id", feedback.ID.Hex()),
		zap.String("attendee_id", attendee.ID.Hex()),
		zap.String("experience", string(feedback.Experience)))

	if s.publisher != nil {
		// Fire and forget; the feedback is already stored.
		go func(fb models.Feedback) {
			if err := s.publisher.Publish(context.Background(), fb); err != nil {
				s.logger.Warn("failed to publish live update", zap.String("feedback_id", fb.ID.Hex()), zap.Error(err))
			}
		}(*feedback)
	}

	return feedback, nil
}
