package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"tech-hub-backend/internal/database"
	"tech-hub-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap/zaptest"
)

// mongoTestDB connects to MONGODB_TEST_URI and returns a throwaway database
// that is dropped when the test ends.
func mongoTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	name := "techhub_test_" + bson.NewObjectID().Hex()
	db, err := database.Connect(ctx, uri, name, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = database.Disconnect(ctx, db)
	})
	return db
}

func TestMongoRepos(t *testing.T) {
	db := mongoTestDB(t)
	ctx := context.Background()

	attendees := NewAttendeeRepo(db)
	feedback := NewFeedbackRepo(db)
	require.NoError(t, attendees.EnsureIndexes(ctx))
	require.NoError(t, feedback.EnsureIndexes(ctx))

	ada := &models.Attendee{Name: "Ada", Email: "ada@x.com", Token: "tok-ada"}
	require.NoError(t, attendees.Create(ctx, ada))
	require.False(t, ada.ID.IsZero())

	t.Run("duplicate email maps to DuplicateError", func(t *testing.T) {
		err := attendees.Create(ctx, &models.Attendee{Name: "Ada 2", Email: "ada@x.com", Token: "other"})
		require.ErrorIs(t, err, ErrDuplicate)
		var dup *DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Field)
	})

	t.Run("find by token", func(t *testing.T) {
		got, err := attendees.FindByToken(ctx, "tok-ada")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, ada.ID, got.ID)

		missing, err := attendees.FindByToken(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("feedback join and flag", func(t *testing.T) {
		fb := &models.Feedback{
			AttendeeID:   ada.ID,
			Expectations: "learn new things",
			Experience:   models.ExperienceGood,
			KeyTakeaways: "go is pleasant",
			Improvements: "more coffee please",
		}
		require.NoError(t, feedback.Create(ctx, fb))

		err := feedback.Create(ctx, &models.Feedback{AttendeeID: ada.ID, Experience: models.ExperiencePoor})
		require.ErrorIs(t, err, ErrDuplicate)

		changed, err := attendees.MarkFeedbackSubmitted(ctx, ada.ID)
		require.NoError(t, err)
		assert.True(t, changed)
		changed, err = attendees.MarkFeedbackSubmitted(ctx, ada.ID)
		require.NoError(t, err)
		assert.False(t, changed)

		entries, err := feedback.ListWithAttendee(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Ada", entries[0].Attendee.Name)
		assert.Equal(t, fb.ID, entries[0].ID)
	})
}
