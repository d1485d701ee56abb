// Package scheduler triggers periodic dataset refreshes on a cron schedule,
// guarded by a distributed lock so only one instance refreshes at a time.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dandantas/wikigeo/internal/config"
	"github.com/dandantas/wikigeo/internal/database"
	"github.com/dandantas/wikigeo/internal/service"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// refreshLockName is the shared lock under which scheduled refreshes run.
const refreshLockName = "dataset_refresh"

// Scheduler triggers scheduled retrieval runs with distributed locking
type Scheduler struct {
	cfg        *config.Config
	retrieval  *service.RetrievalService
	lockRepo   *database.LockRepository
	logger     *slog.Logger
	instanceID string
	schedule   cron.Schedule
	ticker     *time.Ticker
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	cfg *config.Config,
	retrieval *service.RetrievalService,
	lockRepo *database.LockRepository,
	logger *slog.Logger,
) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(cfg.RefreshSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.RefreshSchedule, err)
	}

	// Instance identifier (hostname in Kubernetes)
	instanceID, err := os.Hostname()
	if err != nil {
		instanceID = uuid.New().String()
		logger.Warn("Failed to get hostname, using UUID as instance ID", "instance_id", instanceID)
	}

	return &Scheduler{
		cfg:        cfg,
		retrieval:  retrieval,
		lockRepo:   lockRepo,
		logger:     logger,
		instanceID: instanceID,
		schedule:   schedule,
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins the scheduler tick loop
func (s *Scheduler) Start(ctx context.Context) {
	if !s.cfg.RefreshEnabled {
		s.logger.Info("Refresh scheduler is disabled by configuration")
		return
	}

	s.logger.Info("Starting refresh scheduler",
		"instance_id", s.instanceID,
		"schedule", s.cfg.RefreshSchedule,
		"lock_ttl", s.cfg.RefreshLockTTL,
	)

	s.ticker = time.NewTicker(1 * time.Minute)
	s.wg.Add(1)

	go s.run(ctx)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop(ctx context.Context) {
	if !s.cfg.RefreshEnabled {
		return
	}

	s.logger.Info("Stopping refresh scheduler", "instance_id", s.instanceID)

	close(s.stopChan)
	if s.ticker != nil {
		s.ticker.Stop()
	}

	// Wait for an in-flight refresh with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduled refresh completed")
	case <-ctx.Done():
		s.logger.Warn("Timeout waiting for scheduled refresh to complete")
	}
}

// run is the main scheduler loop
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	nextRun := s.schedule.Next(time.Now())
	s.logger.Info("Next scheduled refresh", "at", nextRun)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case now := <-s.ticker.C:
			if now.Before(nextRun) {
				continue
			}
			nextRun = s.schedule.Next(now)
			s.refresh(ctx)
			s.logger.Info("Next scheduled refresh", "at", nextRun)
		}
	}
}

// refresh executes one scheduled retrieval run under the distributed lock
func (s *Scheduler) refresh(ctx context.Context) {
	acquired, err := s.lockRepo.AcquireLock(ctx, refreshLockName, s.instanceID, s.cfg.RefreshLockTTL)
	if err != nil {
		s.logger.Error("Failed to acquire refresh lock", "error", err.Error())
		return
	}
	if !acquired {
		s.logger.Info("Refresh lock held by another instance, skipping")
		return
	}
	defer func() {
		if err := s.lockRepo.ReleaseLock(context.Background(), refreshLockName, s.instanceID); err != nil {
			s.logger.Error("Failed to release refresh lock", "error", err.Error())
		}
	}()

	run, err := s.retrieval.Run(ctx, "schedule")
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			s.logger.Info("Retrieval run already in progress, skipping scheduled refresh")
			return
		}
		s.logger.Error("Scheduled refresh failed", "error", err.Error())
		return
	}

	s.logger.Info("Scheduled refresh finished",
		"run_id", run.RunID,
		"status", run.Status,
	)
}
