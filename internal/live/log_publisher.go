package live

import (
	"context"

	"tech-hub-backend/internal/models"

	"go.uber.org/zap"
)

// LogPublisher implements Publisher by logging each event. It is used when the
// live channel is disabled.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, feedback models.Feedback) error {
	p.logger.Info("📨 [LogPublisher] new feedback",
		zap.String("feedback_id", feedback.ID.Hex()),
		zap.String("attendee_id", feedback.AttendeeID.Hex()),
		zap.String("experience", string(feedback.Experience)))
	return nil
}
