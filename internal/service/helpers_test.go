package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tech-hub-backend/internal/models"
	"tech-hub-backend/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap/zaptest"
)

var errStoreDown = errors.New("store unreachable")

type spyPublisher struct {
	events chan models.Feedback
	err    error
}

func newSpyPublisher() *spyPublisher {
	return &spyPublisher{events: make(chan models.Feedback, 16)}
}

func (p *spyPublisher) Publish(_ context.Context, feedback models.Feedback) error {
	p.events <- feedback
	return p.err
}

type spyMailer struct {
	mu   sync.Mutex
	sent []models.Attendee
	err  error
}

func (m *spyMailer) SendScanCode(_ context.Context, attendee models.Attendee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, attendee)
	return m.err
}

func (m *spyMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// failingAttendees fails every call with errStoreDown.
type failingAttendees struct{}

func (failingAttendees) Create(context.Context, *models.Attendee) error { return errStoreDown }
func (failingAttendees) FindByID(context.Context, bson.ObjectID) (*models.Attendee, error) {
	return nil, errStoreDown
}
func (failingAttendees) FindByToken(context.Context, string) (*models.Attendee, error) {
	return nil, errStoreDown
}
func (failingAttendees) MarkFeedbackSubmitted(context.Context, bson.ObjectID) (bool, error) {
	return false, errStoreDown
}

type fixture struct {
	store        *repository.MemoryStore
	publisher    *spyPublisher
	registration *RegistrationService
	submission   *SubmissionService
	query        *QueryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := repository.NewMemoryStore()
	publisher := newSpyPublisher()
	return &fixture{
		store:        store,
		publisher:    publisher,
		registration: NewRegistrationService(store.Attendees(), UUIDTokens{}, "", nil, logger),
		submission:   NewSubmissionService(store.Attendees(), store.Feedback(), publisher, logger),
		query:        NewQueryService(store.Feedback()),
	}
}

func (f *fixture) register(t *testing.T, name, email string) *models.Attendee {
	t.Helper()
	attendee, err := f.registration.Register(context.Background(), RegisterInput{Name: name, Email: email})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return attendee
}

func validSubmission(attendeeID string) SubmitInput {
	return SubmitInput{
		AttendeeID:   attendeeID,
		Expectations: "hoped to learn about Go",
		Experience:   models.ExperienceGood,
		KeyTakeaways: "channels are not queues",
		Improvements: "longer coffee breaks",
	}
}
