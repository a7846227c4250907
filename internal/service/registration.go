package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tech-hub-backend/internal/models"
	"tech-hub-backend/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// DefaultEventCode is the scan value printed on the event poster. Scanning it
// starts a registration instead of looking up an attendee.
const DefaultEventCode = "TechGuruMeetup2025"

const mailTimeout = 30 * time.Second

// AttendeeStore is the identity store. Find methods return (nil, nil) when no
// attendee matches.
type AttendeeStore interface {
	Create(ctx context.Context, attendee *models.Attendee) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Attendee, error)
	FindByToken(ctx context.Context, token string) (*models.Attendee, error)
	MarkFeedbackSubmitted(ctx context.Context, id bson.ObjectID) (bool, error)
}

// ScanCodeMailer sends a freshly registered attendee their scan token.
type ScanCodeMailer interface {
	SendScanCode(ctx context.Context, attendee models.Attendee) error
}

type RegisterInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// ScanResult is what a scanned code resolves to: either an existing attendee
// or the event code, which asks the client to register someone new.
type ScanResult struct {
	Attendee    *models.Attendee
	NewAttendee bool
}

type RegistrationService struct {
	attendees AttendeeStore
	tokens    TokenGenerator
	eventCode string
	mailer    ScanCodeMailer
	logger    *zap.Logger
}

// NewRegistrationService wires the registration flow. eventCode defaults to
// DefaultEventCode; mailer may be nil to skip scan code emails.
func NewRegistrationService(attendees AttendeeStore, tokens TokenGenerator, eventCode string, mailer ScanCodeMailer, logger *zap.Logger) *RegistrationService {
	if eventCode == "" {
		eventCode = DefaultEventCode
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		attendees: attendees,
		tokens:    tokens,
		eventCode: eventCode,
		mailer:    mailer,
		logger:    logger,
	}
}

// EventCode returns the reserved scan value that starts a registration.
func (s *RegistrationService) EventCode() string { return s.eventCode }

// Register creates an attendee and issues their scan token. The token is
// derived from the email, so registering the same email twice fails with a
// conflict.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*models.Attendee, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if verr := check(in); verr != nil {
		return nil, verr
	}

	token, err := s.tokens.Generate(in.Email)
	if err != nil {
		return nil, fmt.Errorf("generate scan token: %w", err)
	}
	if token == "" {
		return nil, errors.New("generate scan token: empty token")
	}
	if token == s.eventCode {
		return nil, ErrReservedToken
	}

	attendee := &models.Attendee{
		Name:  in.Name,
		Email: in.Email,
		Token: token,
	}
	if err := s.attendees.Create(ctx, attendee); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			if dup.Field == "token" {
				return nil, ErrTokenTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create attendee: %w", err)
	}

	s.logger.Info("attendee registered", zap.String("attendee_id", attendee.ID.Hex()))

	if s.mailer != nil {
		// Best effort: registration has already succeeded.
		go func(a models.Attendee) {
			ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
			defer cancel()
			if err := s.mailer.SendScanCode(ctx, a); err != nil {
				s.logger.Warn("failed to send scan code", zap.String("attendee_id", a.ID.Hex()), zap.Error(err))
			}
		}(*attendee)
	}

	return attendee, nil
}

// LookupByToken returns the attendee owning token exactly.
func (s *RegistrationService) LookupByToken(ctx context.Context, token string) (*models.Attendee, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	attendee, err := s.attendees.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find attendee by token: %w", err)
	}
	if attendee == nil {
		return nil, ErrNotFound
	}
	return attendee, nil
}

// Scan resolves a scanned code. The event code is recognised before any
// lookup so it can never be mistaken for an attendee token.
func (s *RegistrationService) Scan(ctx context.Context, code string) (ScanResult, error) {
	if code == s.eventCode {
		return ScanResult{NewAttendee: true}, nil
	}
	attendee, err := s.LookupByToken(ctx, code)
	if err != nil {
		return ScanResult{}, err
	}
	return ScanResult{Attendee: attendee}, nil
}
