package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"

	"tech-hub-backend/internal/models"
	"tech-hub-backend/internal/qrcode"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// emailSender is the part of the Resend client we use.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Resend emails attendees their scan token with the QR code attached.
type Resend struct {
	emails    emailSender
	from      string
	eventName string
	logger    *zap.Logger
}

func NewResend(apiKey, from, eventName string, logger *zap.Logger) *Resend {
	client := resend.NewClient(apiKey)
	return &Resend{
		emails:    client.Emails,
		from:      from,
		eventName: eventName,
		logger:    logger,
	}
}

func (m *Resend) SendScanCode(ctx context.Context, attendee models.Attendee) error {
	if attendee.Email == "" || attendee.Token == "" {
		return errors.New("mailer: attendee has no email or token")
	}

	code, err := qrcode.PNG(attendee.Token, qrcode.DefaultSize)
	if err != nil {
		return fmt.Errorf("render scan code: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{attendee.Email},
		Subject: fmt.Sprintf("Your %s scan code", m.eventName),
		Html:    scanCodeHTML(m.eventName, attendee),
		Attachments: []*resend.Attachment{{
			Content:     code,
			Filename:    "scan-code.png",
			ContentType: "image/png",
		}},
	}

	sent, err := m.emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	m.logger.Info("📧 Scan code sent",
		zap.String("email_id", sent.Id),
		zap.String("attendee_id", attendee.ID.Hex()))
	return nil
}

func scanCodeHTML(eventName string, attendee models.Attendee) string {
	return fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">Welcome to %s, %s! 🚀</h2>
				<p>Show the attached QR code at the feedback desk, or enter this code:</p>
				<p style="font-family: monospace; font-size: 16px; background: #f5f3ff; padding: 12px; border-radius: 8px;">%s</p>
				<p style="color: #888; font-size: 14px; margin-top: 16px;">
					Each attendee can submit feedback once.
				</p>
			</div>
		`, html.EscapeString(eventName), html.EscapeString(attendee.Name), html.EscapeString(attendee.Token))
}
