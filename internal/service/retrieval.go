package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dandantas/wikigeo/internal/database"
	"github.com/dandantas/wikigeo/internal/export"
	"github.com/dandantas/wikigeo/internal/model"
	"github.com/dandantas/wikigeo/internal/runner"
	"github.com/dandantas/wikigeo/internal/sparql"
	"github.com/dandantas/wikigeo/internal/webhook"
	"github.com/google/uuid"
)

// ErrRunInProgress is returned when a retrieval run is requested while
// another one is still executing.
var ErrRunInProgress = errors.New("a retrieval run is already in progress")

// RetrievalService orchestrates full retrieval runs: country discovery,
// the batch-retry loop, run history bookkeeping, optional CSV export, and
// the completion webhook. At most one run executes at a time.
type RetrievalService struct {
	runnerCfg    runner.Config
	exportPath   string
	sparqlClient *sparql.Client
	sink         *Sink
	runs         *database.RunRepository
	dispatcher   *webhook.Dispatcher // nil when no webhook is configured
	logger       *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewRetrievalService creates the run orchestrator
func NewRetrievalService(
	runnerCfg runner.Config,
	exportPath string,
	sparqlClient *sparql.Client,
	sink *Sink,
	runs *database.RunRepository,
	dispatcher *webhook.Dispatcher,
	logger *slog.Logger,
) *RetrievalService {
	return &RetrievalService{
		runnerCfg:    runnerCfg,
		exportPath:   exportPath,
		sparqlClient: sparqlClient,
		sink:         sink,
		runs:         runs,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// Running reports whether a run is currently executing.
func (s *RetrievalService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// StartRun launches a retrieval run in the background and returns its run ID
// immediately. Returns ErrRunInProgress if one is already executing.
func (s *RetrievalService) StartRun(triggeredBy string) (string, error) {
	if !s.acquire() {
		return "", ErrRunInProgress
	}

	runID := uuid.New().String()
	go func() {
		defer s.release()
		// Runs outlive the triggering request; they own their own context.
		s.execute(context.Background(), runID, triggeredBy)
	}()

	return runID, nil
}

// Run executes a retrieval run synchronously. Returns ErrRunInProgress if
// one is already executing.
func (s *RetrievalService) Run(ctx context.Context, triggeredBy string) (*model.RetrievalRun, error) {
	if !s.acquire() {
		return nil, ErrRunInProgress
	}
	defer s.release()

	return s.execute(ctx, uuid.New().String(), triggeredBy), nil
}

func (s *RetrievalService) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *RetrievalService) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// execute performs one full run and records its history. It never returns an
// error: failures are recorded on the run document.
func (s *RetrievalService) execute(ctx context.Context, runID, triggeredBy string) *model.RetrievalRun {
	logger := s.logger.With("run_id", runID)
	logger.Info("Starting retrieval run", "triggered_by", triggeredBy)

	run := &model.RetrievalRun{
		RunID:       runID,
		TriggeredBy: triggeredBy,
		StartedAt:   time.Now().UTC(),
		Status:      model.RunStatusRunning,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		logger.Error("Failed to create run record", "error", err.Error())
		// Continue anyway: run history is bookkeeping, not the product.
	}

	report, runErr := s.performRun(ctx, logger, run)

	run.FinishedAt = time.Now().UTC()
	if runErr != nil {
		run.Status = model.RunStatusFailed
		run.Error = runErr.Error()
		logger.Error("Retrieval run failed", "error", runErr.Error())
	} else {
		run.Status = model.RunStatusCompleted
		run.Rounds = report.Rounds
		run.RecordCount = len(report.Records)
		run.BatchStats = report.BatchStats
		logger.Info("Retrieval run completed",
			"rounds", report.Rounds,
			"records", len(report.Records),
			"duration_ms", run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
		)
	}

	s.notify(ctx, logger, run)

	if err := s.runs.Update(ctx, run); err != nil {
		logger.Error("Failed to update run record", "error", err.Error())
	}

	return run
}

func (s *RetrievalService) performRun(ctx context.Context, logger *slog.Logger, run *model.RetrievalRun) (*runner.Report, error) {
	discovery := NewDiscovery(s.sparqlClient, logger)
	jobs, err := discovery.DiscoverCountries(ctx)
	if err != nil {
		return nil, err
	}
	run.JobCount = len(jobs)

	r := runner.New(s.runnerCfg, NewExecutor(s.sparqlClient), s.sink, s.sink, logger)
	report, err := r.Run(ctx, jobs)
	if err != nil {
		return report, err
	}

	if s.exportPath != "" {
		if err := export.WriteFile(s.exportPath, report.Records); err != nil {
			return report, err
		}
		logger.Info("Exported combined dataset",
			"path", s.exportPath,
			"records", len(report.Records),
		)
	}

	return report, nil
}

func (s *RetrievalService) notify(ctx context.Context, logger *slog.Logger, run *model.RetrievalRun) {
	if s.dispatcher == nil {
		return
	}

	attempts, err := s.dispatcher.Notify(ctx, webhook.FormatRunPayload(run))
	run.Webhook = attempts
	if err != nil {
		logger.Error("Failed to deliver completion webhook", "error", err.Error())
	}
}
