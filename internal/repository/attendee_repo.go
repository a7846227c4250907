package repository

import (
	"context"
	"time"

	"tech-hub-backend/internal/database"
	"tech-hub-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	attendeeEmailIndex = "attendees_email_unique"
	attendeeTokenIndex = "attendees_token_unique"
)

var attendeeIndexFields = map[string]string{
	attendeeEmailIndex: "email",
	attendeeTokenIndex: "token",
}

type AttendeeRepo struct {
	collection *mongo.Collection
}

func NewAttendeeRepo(db *mongo.Database) *AttendeeRepo {
	return &AttendeeRepo{
		collection: db.Collection(database.AttendeesCollection),
	}
}

// Create inserts the attendee and fills in its ID and timestamps. A unique
// index violation is reported as a *DuplicateError.
func (r *AttendeeRepo) Create(ctx context.Context, attendee *models.Attendee) error {
	now := time.Now().UTC()
	attendee.CreatedAt = now
	attendee.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, attendee)
	if err != nil {
		return duplicateFrom(err, attendeeIndexFields)
	}
	attendee.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *AttendeeRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Attendee, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AttendeeRepo) FindByToken(ctx context.Context, token string) (*models.Attendee, error) {
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *AttendeeRepo) findOne(ctx context.Context, filter bson.M) (*models.Attendee, error) {
	var attendee models.Attendee
	err := r.collection.FindOne(ctx, filter).Decode(&attendee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &attendee, nil
}

// MarkFeedbackSubmitted flips has_submitted_feedback to true only if it is
// still false. It reports whether this call performed the transition.
func (r *AttendeeRepo) MarkFeedbackSubmitted(ctx context.Context, id bson.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(ctx, bson.M{
		"_id":                    id,
		"has_submitted_feedback": false,
	}, bson.M{
		"$set": bson.M{
			"has_submitted_feedback": true,
			"updated_at":             time.Now().UTC(),
		},
	})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// EnsureIndexes creates necessary indexes for the attendees collection
func (r *AttendeeRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(attendeeEmailIndex),
		},
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(attendeeTokenIndex),
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
