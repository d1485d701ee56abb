package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dandantas/wikigeo/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunRepository handles retrieval run history operations
type RunRepository struct {
	collection *mongo.Collection
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *MongoDB) *RunRepository {
	return &RunRepository{
		collection: db.GetCollection(CollectionRetrievalRuns),
	}
}

// Create inserts a new retrieval run record
func (r *RunRepository) Create(ctx context.Context, run *model.RetrievalRun) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if run.ID.IsZero() {
		run.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctxTimeout, run)
	if err != nil {
		return fmt.Errorf("failed to create retrieval run: %w", err)
	}

	return nil
}

// GetByRunID retrieves a retrieval run by its run ID
func (r *RunRepository) GetByRunID(ctx context.Context, runID string) (*model.RetrievalRun, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var run model.RetrievalRun
	err := r.collection.FindOne(ctxTimeout, bson.M{"run_id": runID}).Decode(&run)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("retrieval run not found")
		}
		return nil, fmt.Errorf("failed to get retrieval run: %w", err)
	}

	return &run, nil
}

// List retrieves retrieval runs with pagination, newest first
func (r *RunRepository) List(ctx context.Context, page, limit int) ([]model.RetrievalRun, int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	total, err := r.collection.CountDocuments(ctxTimeout, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count retrieval runs: %w", err)
	}

	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "started_at", Value: -1}})

	cursor, err := r.collection.Find(ctxTimeout, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list retrieval runs: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var runs []model.RetrievalRun
	if err := cursor.All(ctxTimeout, &runs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode retrieval runs: %w", err)
	}

	return runs, total, nil
}

// Update replaces the stored run document for a run ID
func (r *RunRepository) Update(ctx context.Context, run *model.RetrievalRun) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.ReplaceOne(ctxTimeout, bson.M{"run_id": run.RunID}, run)
	if err != nil {
		return fmt.Errorf("failed to update retrieval run: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("retrieval run not found")
	}

	return nil
}
