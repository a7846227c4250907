package live

import (
	"context"

	"tech-hub-backend/internal/models"
)

// EventNewFeedback is the only event type sent on the live channel.
const EventNewFeedback = "newFeedback"

// Publisher delivers newly created feedback to live viewers. Delivery is best
// effort: an error means the event was not handed off, never that the
// feedback itself is in doubt.
type Publisher interface {
	Publish(ctx context.Context, feedback models.Feedback) error
}

// Event is the envelope written to every viewer.
type Event struct {
	Type string          `json:"type"`
	Data models.Feedback `json:"data"`
}
