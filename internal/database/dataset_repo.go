package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dandantas/wikigeo/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatasetRepository handles per-job success artifact operations
type DatasetRepository struct {
	collection *mongo.Collection
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *MongoDB) *DatasetRepository {
	return &DatasetRepository{
		collection: db.GetCollection(CollectionCityDatasets),
	}
}

// Replace upserts the dataset for a job key. A retry-success overwrites the
// previous artifact so each job identity contributes exactly one document.
func (r *DatasetRepository) Replace(ctx context.Context, dataset *model.CityDataset) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctxTimeout, bson.M{"job_key": dataset.JobKey}, dataset, opts)
	if err != nil {
		return fmt.Errorf("failed to replace city dataset: %w", err)
	}

	return nil
}

// GetByJobKey retrieves the dataset for one job key.
func (r *DatasetRepository) GetByJobKey(ctx context.Context, jobKey string) (*model.CityDataset, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var dataset model.CityDataset
	err := r.collection.FindOne(ctxTimeout, bson.M{"job_key": jobKey}).Decode(&dataset)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("dataset not found")
		}
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	return &dataset, nil
}

// All streams every committed dataset and returns the union of their record
// sets. Each artifact contributes exactly once.
func (r *DatasetRepository) All(ctx context.Context) ([]model.CityRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "job_key", Value: 1}})
	cursor, err := r.collection.Find(ctxTimeout, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var records []model.CityRecord
	for cursor.Next(ctxTimeout) {
		var dataset model.CityDataset
		if err := cursor.Decode(&dataset); err != nil {
			return nil, fmt.Errorf("failed to decode dataset: %w", err)
		}
		records = append(records, dataset.Records...)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate datasets: %w", err)
	}

	return records, nil
}

// Count returns the number of committed datasets.
func (r *DatasetRepository) Count(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	total, err := r.collection.CountDocuments(ctxTimeout, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count datasets: %w", err)
	}

	return total, nil
}
