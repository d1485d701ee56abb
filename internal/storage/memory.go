// Package storage provides an in-memory implementation of the runner's
// durable stores. It backs tests and MONGO-less local runs; production uses
// the MongoDB repositories in internal/database.
package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dandantas/wikigeo/internal/model"
)

// Memory holds markers and artifacts in process memory. A single mutex
// guards both maps so a commit's artifact-write and marker-delete are atomic
// with respect to a concurrent marker scan.
type Memory struct {
	mu       sync.Mutex
	markers  map[string]model.FailureMarker
	datasets map[string]model.CityDataset
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		markers:  make(map[string]model.FailureMarker),
		datasets: make(map[string]model.CityDataset),
	}
}

// Commit stores the job's record set and removes any failure marker for the
// same identity. Committing the same identity twice overwrites in place.
func (m *Memory) Commit(ctx context.Context, job model.Job, records []model.CityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := job.Key()
	m.datasets[key] = model.CityDataset{
		JobKey:      key,
		Job:         job,
		Records:     records,
		RetrievedAt: time.Now().UTC(),
	}
	delete(m.markers, key)

	return nil
}

// MarkFailed records a failure marker for the job, overwriting any prior one.
func (m *Memory) MarkFailed(ctx context.Context, job model.Job, cause string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := job.Key()
	m.markers[key] = model.FailureMarker{
		JobKey:   key,
		Job:      job,
		Cause:    cause,
		FailedAt: time.Now().UTC(),
	}

	return nil
}

// Aggregate returns the union of all committed record sets, key-sorted.
func (m *Memory) Aggregate(ctx context.Context) ([]model.CityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.datasets))
	for key := range m.datasets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var records []model.CityRecord
	for _, key := range keys {
		records = append(records, m.datasets[key].Records...)
	}

	return records, nil
}

// Markers reconstructs the jobs of all outstanding failure markers in stable
// key order. An empty result is the convergence signal.
func (m *Memory) Markers(ctx context.Context) ([]model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.markers))
	for key := range m.markers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	jobs := make([]model.Job, 0, len(keys))
	for _, key := range keys {
		jobs = append(jobs, m.markers[key].Job)
	}

	return jobs, nil
}

// MarkerFor returns the failure marker for a job key, if one exists.
func (m *Memory) MarkerFor(jobKey string) (model.FailureMarker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	marker, ok := m.markers[jobKey]
	return marker, ok
}

// DatasetFor returns the committed dataset for a job key, if one exists.
func (m *Memory) DatasetFor(jobKey string) (model.CityDataset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dataset, ok := m.datasets[jobKey]
	return dataset, ok
}
