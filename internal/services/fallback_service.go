package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure FallbackServiceImpl implements FallbackService
var _ FallbackService = (*FallbackServiceImpl)(nil)

// FallbackServiceImpl reconciles every spin into exactly one lead outcome.
// A task starts PENDING; either the lead-submission path cancels it as
// RESOLVED_FULL, or the timer/sweep resolves it. All transitions go through
// the store's conditional update, so concurrent resolvers cannot both win.
// The in-process timer is a latency optimization only; the persisted dueAt
// plus the sweep is the recovery mechanism after a restart.
type FallbackServiceImpl struct {
	taskRepo repositories.FallbackTaskRepository
	leadRepo repositories.LeadRepository
	registry *NotifierRegistry
	delay    time.Duration

	mu     sync.Mutex
	timers map[primitive.ObjectID]*time.Timer
	closed bool
}

// NewFallbackService creates a new FallbackServiceImpl
func NewFallbackService(
	taskRepo repositories.FallbackTaskRepository,
	leadRepo repositories.LeadRepository,
	registry *NotifierRegistry,
	delay time.Duration,
) *FallbackServiceImpl {
	return &FallbackServiceImpl{
		taskRepo: taskRepo,
		leadRepo: leadRepo,
		registry: registry,
		delay:    delay,
		timers:   make(map[primitive.ObjectID]*time.Timer),
	}
}

// Schedule creates the pending task for a spin and arms its in-process timer
func (s *FallbackServiceImpl) Schedule(ctx context.Context, spin *models.Spin, username string) (*models.FallbackTask, error) {
	task := &models.FallbackTask{
		SpinID:     spin.ID,
		TenantID:   spin.TenantID,
		UserID:     spin.UserID,
		Username:   username,
		PrizeLabel: spin.PrizeLabel,
		State:      models.FallbackStatePending,
		DueAt:      time.Now().Add(s.delay),
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create fallback task: %w", err)
	}

	s.armTimer(spin.ID)
	slog.Info("Fallback task scheduled", "tenant", spin.TenantID, "spinId", spin.ID.Hex(), "dueAt", task.DueAt)
	return task, nil
}

// Resolve settles a task exactly once. Terminal tasks are a no-op, which is
// what makes the timer, the sweep and a racing lead submission safe to run
// against the same spin.
func (s *FallbackServiceImpl) Resolve(ctx context.Context, spinID primitive.ObjectID) error {
	task, err := s.taskRepo.FindBySpinID(ctx, spinID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: fallback task %s", ErrNotFound, spinID.Hex())
		}
		return fmt.Errorf("failed to load fallback task: %w", err)
	}
	if task.Resolved() {
		s.stopTimer(spinID)
		return nil
	}

	leadExists := false
	_, err = s.leadRepo.FindBySpinID(ctx, task.TenantID, spinID)
	switch {
	case err == nil:
		leadExists = true
	case errors.Is(err, mongo.ErrNoDocuments):
		// No lead yet; fall through to the fallback path.
	default:
		// Leave the task pending; the sweep retries later.
		return fmt.Errorf("failed to check lead for spin %s: %w", spinID.Hex(), err)
	}

	if leadExists {
		// The lead-submission path already notified; just settle the state.
		err = s.taskRepo.TransitionState(ctx, spinID, models.FallbackStatePending, models.FallbackStateResolvedFull)
		if err != nil && !errors.Is(err, repositories.ErrStateConflict) {
			return fmt.Errorf("failed to resolve task as full: %w", err)
		}
		s.stopTimer(spinID)
		return nil
	}

	err = s.taskRepo.TransitionState(ctx, spinID, models.FallbackStatePending, models.FallbackStateResolvedFallback)
	if err != nil {
		if errors.Is(err, repositories.ErrStateConflict) {
			// Another resolver won the transition; its notification counts.
			s.stopTimer(spinID)
			return nil
		}
		return fmt.Errorf("failed to resolve task as fallback: %w", err)
	}
	s.stopTimer(spinID)

	s.notifyFallback(ctx, task)
	return nil
}

// CancelAsResolved marks the task RESOLVED_FULL right after a lead was
// recorded. Idempotent; if a concurrent resolver already fired the fallback
// the double-path condition is logged, not reverted.
func (s *FallbackServiceImpl) CancelAsResolved(ctx context.Context, spinID primitive.ObjectID) error {
	err := s.taskRepo.TransitionState(ctx, spinID, models.FallbackStatePending, models.FallbackStateResolvedFull)
	if err == nil {
		s.stopTimer(spinID)
		return nil
	}
	if !errors.Is(err, repositories.ErrStateConflict) {
		return fmt.Errorf("failed to cancel fallback task: %w", err)
	}

	task, findErr := s.taskRepo.FindBySpinID(ctx, spinID)
	if findErr != nil {
		if errors.Is(findErr, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: fallback task %s", ErrNotFound, spinID.Hex())
		}
		return fmt.Errorf("failed to load fallback task: %w", findErr)
	}
	if task.State == models.FallbackStateResolvedFallback {
		slog.Warn("Lead submitted after fallback notification already went out",
			"tenant", task.TenantID, "spinId", spinID.Hex(), "userId", task.UserID)
	}
	s.stopTimer(spinID)
	return nil
}

// Close stops all armed timers. Pending tasks survive in the store and are
// picked up by the sweep after the next start.
func (s *FallbackServiceImpl) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *FallbackServiceImpl) notifyFallback(ctx context.Context, task *models.FallbackTask) {
	who := task.UserID
	if task.Username != "" {
		who = fmt.Sprintf("@%s (%s)", task.Username, task.UserID)
	}
	text := fmt.Sprintf("Fallback lead: %s won %q (spin %s) but left no contact details.",
		who, task.PrizeLabel, task.SpinID.Hex())

	n, chatID := s.registry.ForTenant(ctx, task.TenantID)
	if err := n.Notify(ctx, chatID, text); err != nil {
		// Never fail the transition over a lost notification.
		slog.Warn("Failed to deliver fallback notification", "error", err, "tenant", task.TenantID, "spinId", task.SpinID.Hex())
	}
}

func (s *FallbackServiceImpl) armTimer(spinID primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.timers[spinID] = time.AfterFunc(s.delay, func() {
		s.dropTimer(spinID)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Resolve(ctx, spinID); err != nil {
			// The sweep retries anything the timer could not settle.
			slog.Error("Timer-driven resolve failed", "error", err, "spinId", spinID.Hex())
		}
	})
}

func (s *FallbackServiceImpl) stopTimer(spinID primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[spinID]; ok {
		timer.Stop()
		delete(s.timers, spinID)
	}
}

func (s *FallbackServiceImpl) dropTimer(spinID primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, spinID)
}
