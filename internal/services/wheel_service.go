package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure WheelServiceImpl implements WheelService
var _ WheelService = (*WheelServiceImpl)(nil)

// WheelServiceImpl handles wheel configuration and weighted prize selection
type WheelServiceImpl struct {
	wheelRepo repositories.WheelRepository

	// rng is guarded by mu; math/rand sources are not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewWheelService creates a new WheelServiceImpl with a time-seeded source
func NewWheelService(wheelRepo repositories.WheelRepository) *WheelServiceImpl {
	return NewWheelServiceWithSource(wheelRepo, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWheelServiceWithSource creates a WheelServiceImpl with an injected
// random source, so selection is reproducible in tests
func NewWheelServiceWithSource(wheelRepo repositories.WheelRepository, rng *rand.Rand) *WheelServiceImpl {
	return &WheelServiceImpl{
		wheelRepo: wheelRepo,
		rng:       rng,
	}
}

// GetWheel retrieves the tenant's wheel items
func (s *WheelServiceImpl) GetWheel(ctx context.Context, tenantID string) ([]*models.WheelItem, error) {
	items, err := s.wheelRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		slog.Error("Failed to load wheel items", "error", err, "tenant", tenantID)
		return nil, fmt.Errorf("failed to load wheel items: %w", err)
	}
	return items, nil
}

// ReplaceWheel swaps the tenant's wheel for the supplied items
func (s *WheelServiceImpl) ReplaceWheel(ctx context.Context, tenantID string, inputs []models.WheelItemInput) (int, error) {
	if len(inputs) == 0 {
		return 0, fmt.Errorf("%w: wheel needs at least one item", ErrInvalidInput)
	}

	items := make([]*models.WheelItem, 0, len(inputs))
	for _, in := range inputs {
		if in.Label == "" {
			return 0, fmt.Errorf("%w: wheel item label is required", ErrInvalidInput)
		}
		items = append(items, &models.WheelItem{
			Label:  in.Label,
			Weight: in.Weight,
		})
	}

	if err := s.wheelRepo.ReplaceAll(ctx, tenantID, items); err != nil {
		slog.Error("Failed to replace wheel items", "error", err, "tenant", tenantID)
		return 0, fmt.Errorf("failed to replace wheel items: %w", err)
	}
	slog.Info("Wheel configuration replaced", "tenant", tenantID, "items", len(items))
	return len(items), nil
}

// SelectPrize picks one label by weighted random choice. No side effects
// beyond advancing the random source.
func (s *WheelServiceImpl) SelectPrize(items []*models.WheelItem) (string, error) {
	if len(items) == 0 {
		return "", ErrWheelNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return pickWeighted(items, s.rng), nil
}

// pickWeighted walks the cumulative weights over the half-open interval
// [0, total). Negative weights count as zero; if every weight is degenerate
// the pick is uniform across all items.
func pickWeighted(items []*models.WheelItem, rng *rand.Rand) string {
	total := 0
	for _, item := range items {
		if item.Weight > 0 {
			total += item.Weight
		}
	}

	if total <= 0 {
		return items[rng.Intn(len(items))].Label
	}

	r := rng.Intn(total)
	acc := 0
	for _, item := range items {
		if item.Weight > 0 {
			acc += item.Weight
		}
		if acc > r {
			return item.Label
		}
	}

	// Unreachable with integer weights; kept as a tie-break fallback.
	return items[len(items)-1].Label
}
