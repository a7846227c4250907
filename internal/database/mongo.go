package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	AttendeesCollection = "attendees"
	FeedbackCollection  = "feedbacks"
)

// Connect dials MongoDB, verifies the connection with a ping and returns the
// named database. Callers own the client and must disconnect it on shutdown.
func Connect(ctx context.Context, uri, dbName string, logger *zap.Logger) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("✅ Connected to MongoDB", zap.String("database", dbName))
	return client.Database(dbName), nil
}

func Disconnect(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return nil
	}
	return db.Client().Disconnect(ctx)
}
