package services

import (
	"context"
	"fmt"

	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ReferralServiceImpl implements ReferralService
var _ ReferralService = (*ReferralServiceImpl)(nil)

// ReferralServiceImpl maintains the deduplicated referral graph. An edge is
// permanent once created; credit is never revoked, and a referrer does not
// need spins of their own for the credit to count.
type ReferralServiceImpl struct {
	referralRepo repositories.ReferralRepository
	registry     *NotifierRegistry
}

// NewReferralService creates a new ReferralServiceImpl
func NewReferralService(referralRepo repositories.ReferralRepository, registry *NotifierRegistry) *ReferralServiceImpl {
	return &ReferralServiceImpl{
		referralRepo: referralRepo,
		registry:     registry,
	}
}

// AddReferral records the ordered edge once. A repeated referral link visit
// is a legitimate retry, so an existing edge returns created=false, not an
// error. Self-referrals are rejected before any write.
func (s *ReferralServiceImpl) AddReferral(ctx context.Context, tenantID, referrerID, referredID string) (bool, error) {
	if referrerID == "" || referredID == "" {
		return false, fmt.Errorf("%w: referrer and referred ids are required", ErrInvalidInput)
	}
	if referrerID == referredID {
		return false, ErrSelfReferral
	}

	edge := &models.ReferralEdge{
		TenantID:   tenantID,
		ReferrerID: referrerID,
		ReferredID: referredID,
	}
	created, err := s.referralRepo.CreateIfAbsent(ctx, edge)
	if err != nil {
		slog.Error("Failed to record referral", "error", err, "tenant", tenantID, "referrer", referrerID, "referred", referredID)
		return false, fmt.Errorf("failed to record referral: %w", err)
	}
	if created {
		slog.Info("Referral credited", "tenant", tenantID, "referrer", referrerID, "referred", referredID)
	}
	return created, nil
}

// CountReferrals counts edges where the user is the referrer
func (s *ReferralServiceImpl) CountReferrals(ctx context.Context, tenantID, userID string) (int64, error) {
	count, err := s.referralRepo.CountByReferrer(ctx, tenantID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals: %w", err)
	}
	return count, nil
}

// ReferralLink builds the user's shareable invite link from the tenant's
// configured base
func (s *ReferralServiceImpl) ReferralLink(ctx context.Context, tenantID, userID string) string {
	return s.registry.LinkBase(ctx, tenantID) + userID
}
