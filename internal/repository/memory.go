package repository

import (
	"context"
	"sync"
	"time"

	"tech-hub-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore keeps attendees and feedback in process memory with the same
// uniqueness rules as the Mongo indexes. It backs tests and STORE=memory.
type MemoryStore struct {
	mu        sync.RWMutex
	attendees []*models.Attendee
	byID      map[bson.ObjectID]*models.Attendee
	byEmail   map[string]*models.Attendee
	byToken   map[string]*models.Attendee
	feedback  []*models.Feedback
	fedBack   map[bson.ObjectID]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[bson.ObjectID]*models.Attendee),
		byEmail: make(map[string]*models.Attendee),
		byToken: make(map[string]*models.Attendee),
		fedBack: make(map[bson.ObjectID]struct{}),
	}
}

// Attendees returns the identity store view of m.
func (m *MemoryStore) Attendees() *MemoryAttendeeRepo { return &MemoryAttendeeRepo{store: m} }

// Feedback returns the feedback store view of m.
func (m *MemoryStore) Feedback() *MemoryFeedbackRepo { return &MemoryFeedbackRepo{store: m} }

type MemoryAttendeeRepo struct {
	store *MemoryStore
}

func (r *MemoryAttendeeRepo) Create(ctx context.Context, attendee *models.Attendee) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[attendee.Email]; ok {
		return &DuplicateError{Field: "email"}
	}
	if _, ok := m.byToken[attendee.Token]; ok {
		return &DuplicateError{Field: "token"}
	}

	now := time.Now().UTC()
	attendee.ID = bson.NewObjectID()
	attendee.CreatedAt = now
	attendee.UpdatedAt = now

	stored := *attendee
	m.attendees = append(m.attendees, &stored)
	m.byID[stored.ID] = &stored
	m.byEmail[stored.Email] = &stored
	m.byToken[stored.Token] = &stored
	return nil
}

func (r *MemoryAttendeeRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Attendee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return copyAttendee(r.store.byID[id]), nil
}

func (r *MemoryAttendeeRepo) FindByToken(ctx context.Context, token string) (*models.Attendee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return copyAttendee(r.store.byToken[token]), nil
}

func (r *MemoryAttendeeRepo) MarkFeedbackSubmitted(ctx context.Context, id bson.ObjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	attendee, ok := r.store.byID[id]
	if !ok || attendee.HasSubmittedFeedback {
		return false, nil
	}
	attendee.HasSubmittedFeedback = true
	attendee.UpdatedAt = time.Now().UTC()
	return true, nil
}

type MemoryFeedbackRepo struct {
	store *MemoryStore
}

func (r *MemoryFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.fedBack[feedback.AttendeeID]; ok {
		return &DuplicateError{Field: "attendee_id"}
	}

	feedback.ID = bson.NewObjectID()
	feedback.CreatedAt = time.Now().UTC()

	stored := *feedback
	m.feedback = append(m.feedback, &stored)
	m.fedBack[stored.AttendeeID] = struct{}{}
	return nil
}

func (r *MemoryFeedbackRepo) ListWithAttendee(ctx context.Context) ([]models.FeedbackEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := make([]models.FeedbackEntry, 0, len(r.store.feedback))
	for _, fb := range r.store.feedback {
		entry := models.FeedbackEntry{Feedback: *fb}
		if attendee, ok := r.store.byID[fb.AttendeeID]; ok {
			entry.Attendee = models.AttendeeRef{ID: attendee.ID, Name: attendee.Name}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func copyAttendee(a *models.Attendee) *models.Attendee {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
