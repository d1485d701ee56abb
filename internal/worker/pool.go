package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dandantas/wikigeo/internal/model"
)

// ExecutorFunc executes one retrieval job. A nil return means the job's
// records were committed; a non-nil return means a failure marker was (or
// should be) written. The function must be safe for concurrent calls with
// different jobs.
type ExecutorFunc func(ctx context.Context, job model.Job) error

// Result is the outcome of one executed job.
type Result struct {
	Job model.Job
	Err error
}

// Pool runs one batch of jobs with a fixed number of worker goroutines. It
// is created per batch, sized to the batch, and joined before the next batch
// starts; nothing outlives the batch.
type Pool struct {
	workers    int
	jobs       chan model.Job
	results    chan Result
	executorFn ExecutorFunc
	logger     *slog.Logger
	wg         sync.WaitGroup
	ctx        context.Context
}

// NewPool creates a worker pool for a batch of the given size
func NewPool(ctx context.Context, workers int, logger *slog.Logger) *Pool {
	return &Pool{
		workers: workers,
		jobs:    make(chan model.Job, workers),
		results: make(chan Result, workers),
		logger:  logger,
		ctx:     ctx,
	}
}

// SetExecutor sets the function that will process jobs
func (wp *Pool) SetExecutor(fn ExecutorFunc) {
	wp.executorFn = fn
}

// Start starts the worker goroutines
func (wp *Pool) Start() {
	wp.logger.Debug("Starting worker pool", "workers", wp.workers)

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Submit submits a job to the pool. The jobs channel is sized to the batch,
// so submitting a full batch never blocks.
func (wp *Pool) Submit(job model.Job) {
	wp.jobs <- job
}

// Join closes the job stream, waits for every worker to finish, and returns
// all collected results. After Join returns, no execution of this batch is
// still in flight.
func (wp *Pool) Join() []Result {
	close(wp.jobs)
	wp.wg.Wait()
	close(wp.results)

	results := make([]Result, 0, wp.workers)
	for result := range wp.results {
		results = append(results, result)
	}

	wp.logger.Debug("Worker pool joined", "results", len(results))
	return results
}

// worker is the goroutine that processes jobs until the stream closes
func (wp *Pool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		wp.logger.Debug("Worker processing job",
			"worker_id", id,
			"job_key", job.Key(),
		)

		err := wp.executorFn(wp.ctx, job)

		// The results channel holds the whole batch, so this never blocks.
		wp.results <- Result{Job: job, Err: err}
	}
}
