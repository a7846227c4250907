package mailer

import (
	"context"

	"tech-hub-backend/internal/models"

	"go.uber.org/zap"
)

// LogMailer stands in for Resend when RESEND_API_KEY is not set.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendScanCode(ctx context.Context, attendee models.Attendee) error {
	m.logger.Info("📧 [Dev Mode] scan code",
		zap.String("email", attendee.Email),
		zap.String("token", attendee.Token))
	return nil
}
