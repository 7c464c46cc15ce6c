package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// SweepService periodically re-resolves due tasks whose in-process timer
// never fired: process restarts, crashes, missed wake-ups. Resolve is
// idempotent, so sweeping concurrently with live timers is safe.
type SweepService struct {
	taskRepo  repositories.FallbackTaskRepository
	fallback  FallbackService
	interval  time.Duration
	batchSize int

	sched gocron.Scheduler
}

// NewSweepService creates a new SweepService
func NewSweepService(
	taskRepo repositories.FallbackTaskRepository,
	fallback FallbackService,
	interval time.Duration,
	batchSize int,
) *SweepService {
	return &SweepService{
		taskRepo:  taskRepo,
		fallback:  fallback,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start schedules the periodic sweep job
func (s *SweepService) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = sched

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.runOnce),
	)
	if err != nil {
		return err
	}

	sched.Start()
	slog.Info("Sweep reconciler started", "interval", s.interval, "batchSize", s.batchSize)
	return nil
}

// Stop shuts the scheduler down; a sweep already in flight finishes
func (s *SweepService) Stop() {
	if s.sched != nil {
		if err := s.sched.Shutdown(); err != nil {
			slog.Error("Failed to shut down sweep scheduler", "error", err)
		}
	}
}

// runOnce executes a single bounded sweep pass
func (s *SweepService) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tasks, err := s.taskRepo.FindDuePending(ctx, time.Now(), s.batchSize)
	if err != nil {
		slog.Error("Sweep query failed", "error", err)
		return
	}
	if len(tasks) == 0 {
		return
	}

	resolved := 0
	for _, task := range tasks {
		if err := s.fallback.Resolve(ctx, task.SpinID); err != nil {
			slog.Error("Sweep resolve failed", "error", err, "spinId", task.SpinID.Hex())
			continue
		}
		resolved++
	}
	slog.Info("Sweep pass completed", "due", len(tasks), "resolved", resolved)
}
