package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Experience string

const (
	ExperienceExcellent Experience = "Excellent"
	ExperienceGood      Experience = "Good"
	ExperienceFair      Experience = "Fair"
	ExperiencePoor      Experience = "Poor"
)

// Experiences lists every accepted rating, best first.
var Experiences = []Experience{ExperienceExcellent, ExperienceGood, ExperienceFair, ExperiencePoor}

func (e Experience) Valid() bool {
	for _, known := range Experiences {
		if e == known {
			return true
		}
	}
	return false
}

type Feedback struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	AttendeeID   bson.ObjectID `bson:"attendee_id" json:"attendeeId"`
	Expectations string        `bson:"expectations" json:"expectations"`
	Experience   Experience    `bson:"experience" json:"experience"`
	KeyTakeaways string        `bson:"key_takeaways" json:"keyTakeaways"`
	Improvements string        `bson:"improvements" json:"improvements"`
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
}

// AttendeeRef is the read-only slice of an Attendee exposed next to feedback.
type AttendeeRef struct {
	ID   bson.ObjectID `bson:"_id" json:"id"`
	Name string        `bson:"name" json:"name"`
}

// FeedbackEntry is a Feedback joined with the name of the attendee who wrote it.
type FeedbackEntry struct {
	Feedback `bson:",inline"`
	Attendee AttendeeRef `bson:"attendee" json:"attendee"`
}
