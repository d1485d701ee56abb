package database

import (
	"context"
	"fmt"
	"time"

	"github.com/dandantas/wikigeo/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MarkerRepository handles failure marker operations
type MarkerRepository struct {
	collection *mongo.Collection
}

// NewMarkerRepository creates a new marker repository
func NewMarkerRepository(db *MongoDB) *MarkerRepository {
	return &MarkerRepository{
		collection: db.GetCollection(CollectionFailureMarkers),
	}
}

// Upsert writes the failure marker for a job, replacing any prior marker for
// the same identity. Re-marking a still-failing job never creates duplicates.
func (r *MarkerRepository) Upsert(ctx context.Context, marker *model.FailureMarker) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctxTimeout, bson.M{"job_key": marker.JobKey}, marker, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert failure marker: %w", err)
	}

	return nil
}

// Delete removes the failure marker for a job key. Deleting a marker that
// does not exist is not an error.
func (r *MarkerRepository) Delete(ctx context.Context, jobKey string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctxTimeout, bson.M{"job_key": jobKey})
	if err != nil {
		return fmt.Errorf("failed to delete failure marker: %w", err)
	}

	return nil
}

// List scans all failure markers and reconstructs their jobs, sorted by job
// key so the retry set has a stable, deterministic order.
func (r *MarkerRepository) List(ctx context.Context) ([]model.Job, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "job_key", Value: 1}})
	cursor, err := r.collection.Find(ctxTimeout, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list failure markers: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var markers []model.FailureMarker
	if err := cursor.All(ctxTimeout, &markers); err != nil {
		return nil, fmt.Errorf("failed to decode failure markers: %w", err)
	}

	jobs := make([]model.Job, 0, len(markers))
	for _, m := range markers {
		jobs = append(jobs, m.Job)
	}

	return jobs, nil
}

// Count returns the number of outstanding failure markers.
func (r *MarkerRepository) Count(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	total, err := r.collection.CountDocuments(ctxTimeout, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count failure markers: %w", err)
	}

	return total, nil
}
