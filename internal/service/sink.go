package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dandantas/wikigeo/internal/database"
	"github.com/dandantas/wikigeo/internal/model"
)

// Sink is the MongoDB-backed result sink and job store: success artifacts
// go to the dataset collection, failure markers to the marker collection.
// It implements both runner.ResultSink and runner.JobStore.
type Sink struct {
	datasets *database.DatasetRepository
	markers  *database.MarkerRepository
}

// NewSink creates a sink over the dataset and marker repositories
func NewSink(datasets *database.DatasetRepository, markers *database.MarkerRepository) *Sink {
	return &Sink{
		datasets: datasets,
		markers:  markers,
	}
}

// Commit upserts the job's dataset, then deletes its failure marker. Both
// writes complete before the batch join, so the next round's marker scan
// never observes a half-applied commit.
func (s *Sink) Commit(ctx context.Context, job model.Job, records []model.CityRecord) error {
	dataset := &model.CityDataset{
		JobKey:      job.Key(),
		Job:         job,
		Records:     records,
		RetrievedAt: time.Now().UTC(),
	}

	if err := s.datasets.Replace(ctx, dataset); err != nil {
		return err
	}

	if err := s.markers.Delete(ctx, job.Key()); err != nil {
		return fmt.Errorf("committed records but failed to clear marker: %w", err)
	}

	return nil
}

// MarkFailed upserts the job's failure marker.
func (s *Sink) MarkFailed(ctx context.Context, job model.Job, cause string) error {
	return s.markers.Upsert(ctx, &model.FailureMarker{
		JobKey:   job.Key(),
		Job:      job,
		Cause:    cause,
		FailedAt: time.Now().UTC(),
	})
}

// Aggregate returns the union of all committed datasets.
func (s *Sink) Aggregate(ctx context.Context) ([]model.CityRecord, error) {
	return s.datasets.All(ctx)
}

// Markers reconstructs the retry set from durable failure markers.
func (s *Sink) Markers(ctx context.Context) ([]model.Job, error) {
	return s.markers.List(ctx)
}
