package database

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes creates all necessary indexes for the collections
func CreateIndexes(ctx context.Context, db *MongoDB) error {
	slog.Info("Creating MongoDB indexes")

	if err := createFailureMarkerIndexes(ctx, db); err != nil {
		return err
	}

	if err := createCityDatasetIndexes(ctx, db); err != nil {
		return err
	}

	if err := createRetrievalRunIndexes(ctx, db); err != nil {
		return err
	}

	if err := createScheduleLockIndexes(ctx, db); err != nil {
		return err
	}

	slog.Info("Successfully created all MongoDB indexes")
	return nil
}

func createFailureMarkerIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionFailureMarkers)

	// One marker per job identity. The unique index is what makes
	// re-marking a still-failing job idempotent.
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_job_key_unique"),
		},
		{
			Keys:    bson.D{{Key: "failed_at", Value: -1}},
			Options: options.Index().SetName("idx_failed_at"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created failure_markers indexes")
	return nil
}

func createCityDatasetIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionCityDatasets)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_job_key_unique"),
		},
		{
			Keys:    bson.D{{Key: "job.country_code", Value: 1}},
			Options: options.Index().SetName("idx_country_code"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created city_datasets indexes")
	return nil
}

func createRetrievalRunIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionRetrievalRuns)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_run_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "started_at", Value: -1}},
			Options: options.Index().SetName("idx_started_at"),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "started_at", Value: -1},
			},
			Options: options.Index().SetName("idx_status_started_at"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created retrieval_runs indexes")
	return nil
}

func createScheduleLockIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionScheduleLocks)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_name_unique"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_expires_at_ttl"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created schedule_locks indexes")
	return nil
}
