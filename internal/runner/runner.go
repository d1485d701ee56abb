// Package runner implements the batch-retry execution engine: it drives a
// job list through rounds of bounded-parallelism execution, persists per-job
// outcomes through the ResultSink, and re-derives the retry set from durable
// failure markers until none remain.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dandantas/wikigeo/internal/model"
	"github.com/dandantas/wikigeo/internal/worker"
)

// ErrMaxRoundsExceeded is returned when the optional round limit is reached
// while failure markers still remain.
var ErrMaxRoundsExceeded = errors.New("max rounds exceeded")

// QueryClient executes one parameterized query against the remote service.
// Implementations must be safe for concurrent use with different jobs.
type QueryClient interface {
	FetchCities(ctx context.Context, job model.Job) ([]model.CityRecord, error)
}

// ResultSink persists per-job outcomes durably and aggregates committed
// artifacts on demand.
type ResultSink interface {
	// Commit persists the records for a job and removes any failure marker
	// for the same identity.
	Commit(ctx context.Context, job model.Job, records []model.CityRecord) error
	// MarkFailed persists a failure marker for a job, overwriting any prior
	// marker for the same identity.
	MarkFailed(ctx context.Context, job model.Job, cause string) error
	// Aggregate returns the union of all committed record sets, each
	// artifact contributing exactly once.
	Aggregate(ctx context.Context) ([]model.CityRecord, error)
}

// JobStore derives the pending retry set from durable failure markers. An
// empty result is the convergence signal.
type JobStore interface {
	Markers(ctx context.Context) ([]model.Job, error)
}

// Config holds the runner's execution parameters.
type Config struct {
	// BatchSize is both the batch length and the degree of parallelism
	// within a batch. Must be positive.
	BatchSize int
	// Cooldown is the pause after each batch. It exists to respect the
	// remote service's rate-limiting window, not to tune throughput.
	Cooldown time.Duration
	// MaxRounds optionally bounds the number of retry rounds. Zero means
	// retry forever, which is the faithful default: a permanently failing
	// job never terminates the run.
	MaxRounds int
}

// Report summarizes a completed run.
type Report struct {
	Rounds     int
	BatchStats []model.BatchStat
	Records    []model.CityRecord
}

// Runner executes the batch-retry loop.
type Runner struct {
	cfg    Config
	client QueryClient
	sink   ResultSink
	store  JobStore
	logger *slog.Logger
}

// New creates a runner. The logger is held by the runner rather than looked
// up globally so callers control where engine output goes.
func New(cfg Config, client QueryClient, sink ResultSink, store JobStore, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		client: client,
		sink:   sink,
		store:  store,
		logger: logger,
	}
}

// Run executes all jobs to convergence and returns the aggregated result.
// Per-job failures never escalate: they are absorbed into failure markers
// and re-driven in the next round. Run returns only when no marker remains
// (or the optional MaxRounds limit trips).
func (r *Runner) Run(ctx context.Context, jobs []model.Job) (*Report, error) {
	if r.cfg.BatchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", r.cfg.BatchSize)
	}

	report := &Report{}
	pending := jobs
	round := 0

	for len(pending) > 0 {
		round++
		if r.cfg.MaxRounds > 0 && round > r.cfg.MaxRounds {
			return report, fmt.Errorf("%d jobs still failing after %d rounds: %w",
				len(pending), r.cfg.MaxRounds, ErrMaxRoundsExceeded)
		}

		size := r.cfg.BatchSize
		if size > len(pending) {
			r.logger.Info("Batch size larger than set of items, adjusted",
				"batch_size", size,
				"adjusted_to", len(pending),
			)
			size = len(pending)
		}

		for _, span := range Partition(len(pending), size) {
			r.logger.Info("Running batch",
				"round", round,
				"lower", span.Lower,
				"upper", span.Upper,
			)

			rate := r.runBatch(ctx, pending[span.Lower:span.Upper])
			report.BatchStats = append(report.BatchStats, model.BatchStat{
				Round:       round,
				Lower:       span.Lower,
				Upper:       span.Upper,
				SuccessRate: rate,
			})

			r.logger.Info("Batch completed",
				"round", round,
				"lower", span.Lower,
				"upper", span.Upper,
				"success_rate", rate,
			)

			r.logger.Info("Sleeping between batches", "cooldown", r.cfg.Cooldown)
			time.Sleep(r.cfg.Cooldown)
		}

		// Re-derive the retry set from durable state. All batch joins have
		// completed at this point, so the scan cannot race a marker delete.
		var err error
		pending, err = r.store.Markers(ctx)
		if err != nil {
			return report, fmt.Errorf("failed to scan failure markers: %w", err)
		}

		if len(pending) > 0 {
			r.logger.Info("Failure markers found, retrying failed jobs",
				"round", round,
				"failed_jobs", len(pending),
			)
		} else {
			r.logger.Info("No failure markers found, all jobs processed")
		}
	}

	report.Rounds = round

	records, err := r.sink.Aggregate(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to aggregate results: %w", err)
	}
	report.Records = records

	return report, nil
}

// runBatch executes one batch with parallelism equal to the batch size and
// returns the mean of the per-job success flags.
func (r *Runner) runBatch(ctx context.Context, batch []model.Job) float64 {
	pool := worker.NewPool(ctx, len(batch), r.logger)
	pool.SetExecutor(r.executeJob)
	pool.Start()

	for _, job := range batch {
		pool.Submit(job)
	}

	results := pool.Join()

	success := 0
	for _, result := range results {
		if result.Err == nil {
			success++
		}
	}

	return float64(success) / float64(len(results))
}

// executeJob performs one attempt of one job. Every error is converted into
// the failure path here; nothing propagates past this boundary.
func (r *Runner) executeJob(ctx context.Context, job model.Job) error {
	records, err := r.client.FetchCities(ctx, job)
	if err != nil {
		r.logger.Info("Fail with job, writing failure marker",
			"job_key", job.Key(),
			"country", job.CountryCode,
			"continent", job.ContinentCode,
			"error", err.Error(),
		)
		if markErr := r.sink.MarkFailed(ctx, job, err.Error()); markErr != nil {
			r.logger.Error("Failed to write failure marker",
				"job_key", job.Key(),
				"error", markErr.Error(),
			)
		}
		return err
	}

	if err := r.sink.Commit(ctx, job, records); err != nil {
		// A storage failure is just a failed attempt of this job.
		r.logger.Error("Failed to commit records, writing failure marker",
			"job_key", job.Key(),
			"error", err.Error(),
		)
		if markErr := r.sink.MarkFailed(ctx, job, err.Error()); markErr != nil {
			r.logger.Error("Failed to write failure marker",
				"job_key", job.Key(),
				"error", markErr.Error(),
			)
		}
		return err
	}

	r.logger.Info("Success with job",
		"job_key", job.Key(),
		"country", job.CountryCode,
		"continent", job.ContinentCode,
		"records", len(records),
	)

	return nil
}
