package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dandantas/wikigeo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func batch(codes ...string) []model.Job {
	jobs := make([]model.Job, 0, len(codes))
	for _, code := range codes {
		jobs = append(jobs, model.Job{CountryCode: code, ContinentCode: "Q46"})
	}
	return jobs
}

func TestPoolExecutesEveryJobOnce(t *testing.T) {
	jobs := batch("Q1", "Q2", "Q3", "Q4")

	var mu sync.Mutex
	executed := make(map[string]int)

	pool := NewPool(context.Background(), len(jobs), testLogger())
	pool.SetExecutor(func(ctx context.Context, job model.Job) error {
		mu.Lock()
		executed[job.Key()]++
		mu.Unlock()
		return nil
	})
	pool.Start()

	for _, job := range jobs {
		pool.Submit(job)
	}
	results := pool.Join()

	require.Len(t, results, len(jobs))
	for _, job := range jobs {
		assert.Equal(t, 1, executed[job.Key()])
	}
}

func TestPoolCollectsFailures(t *testing.T) {
	jobs := batch("Q1", "Q2", "Q3")
	failing := jobs[1].Key()

	pool := NewPool(context.Background(), len(jobs), testLogger())
	pool.SetExecutor(func(ctx context.Context, job model.Job) error {
		if job.Key() == failing {
			return errors.New("remote error")
		}
		return nil
	})
	pool.Start()

	for _, job := range jobs {
		pool.Submit(job)
	}
	results := pool.Join()

	require.Len(t, results, 3)

	failures := 0
	for _, result := range results {
		if result.Err != nil {
			failures++
			assert.Equal(t, failing, result.Job.Key())
		}
	}
	assert.Equal(t, 1, failures)
}

func TestPoolRunsJobsConcurrently(t *testing.T) {
	jobs := batch("Q1", "Q2", "Q3", "Q4")

	// Every job blocks until all jobs have started, which only resolves if
	// the pool really runs them in parallel.
	barrier := make(chan struct{})
	var started sync.WaitGroup
	started.Add(len(jobs))

	pool := NewPool(context.Background(), len(jobs), testLogger())
	pool.SetExecutor(func(ctx context.Context, job model.Job) error {
		started.Done()
		<-barrier
		return nil
	})
	pool.Start()

	for _, job := range jobs {
		pool.Submit(job)
	}

	started.Wait()
	close(barrier)

	results := pool.Join()
	assert.Len(t, results, len(jobs))
}
