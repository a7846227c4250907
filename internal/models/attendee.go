package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Attendee is a registered participant. Token is the scannable code issued at
// registration; it is never reassigned.
type Attendee struct {
	ID                   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string        `bson:"name" json:"name"`
	Email                string        `bson:"email" json:"email"`
	Token                string        `bson:"token" json:"token"`
	HasSubmittedFeedback bool          `bson:"has_submitted_feedback" json:"hasSubmittedFeedback"`
	CreatedAt            time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt            time.Time     `bson:"updated_at" json:"updatedAt"`
}
