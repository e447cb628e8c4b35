// Package database manages the MongoDB connection for the application.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rockyhaque/uplift-orbit-server/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names within the marketplace database.
const (
	JobsCollection = "jobs"
	BidsCollection = "bids"
)

// Connect opens a MongoDB client using the Stable API v1 profile and verifies
// the connection with a ping. The client is owned by the caller and must be
// disconnected during shutdown.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Database("admin").RunCommand(pingCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	log.Println("Pinged your deployment. You successfully connected to MongoDB!")
	return client, nil
}

// EnsureIndexes creates the indexes the application relies on. The unique
// compound index on bids (email, jobId) is the store-level guarantee behind
// the one-proposal-per-job rule; the pre-insert existence check alone is
// racy under concurrent submissions.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	bids := db.Collection(BidsCollection)
	_, err := bids.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "jobId", Value: 1},
		},
		Options: options.Index().SetName("uniq_email_job").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create bids unique index: %w", err)
	}
	return nil
}
