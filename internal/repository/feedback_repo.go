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

const feedbackAttendeeIndex = "feedbacks_attendee_unique"

var feedbackIndexFields = map[string]string{
	feedbackAttendeeIndex: "attendee_id",
}

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo(db *mongo.Database) *FeedbackRepo {
	return &FeedbackRepo{
		collection: db.Collection(database.FeedbackCollection),
	}
}

// Create inserts the feedback. A second feedback for the same attendee is
// rejected by the unique attendee index and reported as a *DuplicateError.
func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	feedback.CreatedAt = time.Now().UTC()
	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return duplicateFrom(err, feedbackIndexFields)
	}
	feedback.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// ListWithAttendee returns every feedback in insertion order, each joined with
// the id and name of its attendee.
func (r *FeedbackRepo) ListWithAttendee(ctx context.Context) ([]models.FeedbackEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: database.AttendeesCollection},
			{Key: "localField", Value: "attendee_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "attendee"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$attendee"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "attendee_id", Value: 1},
			{Key: "expectations", Value: 1},
			{Key: "experience", Value: 1},
			{Key: "key_takeaways", Value: 1},
			{Key: "improvements", Value: 1},
			{Key: "created_at", Value: 1},
			{Key: "attendee._id", Value: 1},
			{Key: "attendee.name", Value: 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	entries := []models.FeedbackEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsureIndexes creates necessary indexes for the feedbacks collection
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "attendee_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(feedbackAttendeeIndex),
	})
	return err
}
