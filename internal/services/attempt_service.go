package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AttemptServiceImpl implements AttemptService
var _ AttemptService = (*AttemptServiceImpl)(nil)

// AttemptServiceImpl accounts spin attempts: quota derivation from the
// referral graph and exactly-once spin recording.
type AttemptServiceImpl struct {
	accountRepo  repositories.AccountRepository
	spinRepo     repositories.SpinRepository
	referralRepo repositories.ReferralRepository

	baseAttempts  int
	referralBonus int
}

// NewAttemptService creates a new AttemptServiceImpl with the deployment's
// attempt policy
func NewAttemptService(
	accountRepo repositories.AccountRepository,
	spinRepo repositories.SpinRepository,
	referralRepo repositories.ReferralRepository,
	baseAttempts, referralBonus int,
) *AttemptServiceImpl {
	if baseAttempts < 0 {
		baseAttempts = 0
	}
	if referralBonus < 0 {
		referralBonus = 0
	}
	return &AttemptServiceImpl{
		accountRepo:   accountRepo,
		spinRepo:      spinRepo,
		referralRepo:  referralRepo,
		baseAttempts:  baseAttempts,
		referralBonus: referralBonus,
	}
}

// QuotaFor computes base + bonus * referralCount for the user
func (s *AttemptServiceImpl) QuotaFor(ctx context.Context, tenantID, userID string) (int, error) {
	referrals, err := s.referralRepo.CountByReferrer(ctx, tenantID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals: %w", err)
	}
	return s.baseAttempts + s.referralBonus*int(referrals), nil
}

// AttemptsLeft computes max(0, quota - spinsTotal)
func (s *AttemptServiceImpl) AttemptsLeft(ctx context.Context, tenantID, userID string) (int, error) {
	quota, err := s.QuotaFor(ctx, tenantID, userID)
	if err != nil {
		return 0, err
	}

	spinsTotal := 0
	account, err := s.accountRepo.FindByUserID(ctx, tenantID, userID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("failed to load account: %w", err)
	}
	if account != nil {
		spinsTotal = account.SpinsTotal
	}

	left := quota - spinsTotal
	if left < 0 {
		left = 0
	}
	return left, nil
}

// RecordSpin reserves one attempt with a single conditional increment
// (spinsTotal < quota lives in the store filter, so two concurrent spins
// cannot both slip through), then persists the spin record.
func (s *AttemptServiceImpl) RecordSpin(ctx context.Context, tenantID, userID, prizeLabel string) (*models.Spin, error) {
	quota, err := s.QuotaFor(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	err = s.accountRepo.IncrementSpinsWithQuota(ctx, tenantID, userID, quota)
	if err != nil {
		if errors.Is(err, repositories.ErrQuotaReached) {
			return nil, ErrQuotaExceeded
		}
		return nil, fmt.Errorf("failed to reserve spin attempt: %w", err)
	}

	spin := &models.Spin{
		TenantID:   tenantID,
		UserID:     userID,
		PrizeLabel: prizeLabel,
	}
	if err := s.spinRepo.Create(ctx, spin); err != nil {
		// The attempt was already reserved; give it back so the user is not
		// charged for a spin that never happened.
		if decErr := s.accountRepo.DecrementSpins(ctx, tenantID, userID); decErr != nil {
			slog.Error("Failed to roll back reserved attempt", "error", decErr, "tenant", tenantID, "userId", userID)
		}
		return nil, fmt.Errorf("failed to persist spin record: %w", err)
	}

	slog.Info("Spin recorded", "tenant", tenantID, "userId", userID, "spinId", spin.ID.Hex(), "prize", prizeLabel)
	return spin, nil
}
