package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SpinServiceImpl implements SpinService
var _ SpinService = (*SpinServiceImpl)(nil)

// SpinServiceImpl is the public operation surface: it strings the attempt
// ledger, prize selection, referral credit and fallback scheduling together
// for the bot frontend.
type SpinServiceImpl struct {
	accountRepo repositories.AccountRepository
	spinRepo    repositories.SpinRepository
	leadRepo    repositories.LeadRepository

	wheels    WheelService
	attempts  AttemptService
	referrals ReferralService
	fallback  FallbackService
	registry  *NotifierRegistry
}

// NewSpinService creates a new SpinServiceImpl
func NewSpinService(
	accountRepo repositories.AccountRepository,
	spinRepo repositories.SpinRepository,
	leadRepo repositories.LeadRepository,
	wheels WheelService,
	attempts AttemptService,
	referrals ReferralService,
	fallback FallbackService,
	registry *NotifierRegistry,
) *SpinServiceImpl {
	return &SpinServiceImpl{
		accountRepo: accountRepo,
		spinRepo:    spinRepo,
		leadRepo:    leadRepo,
		wheels:      wheels,
		attempts:    attempts,
		referrals:   referrals,
		fallback:    fallback,
		registry:    registry,
	}
}

// GetStatus reports the user's remaining attempts, spin count, referral
// count and invite link
func (s *SpinServiceImpl) GetStatus(ctx context.Context, tenantID, userID string) (*models.StatusResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	spinsTotal := 0
	account, err := s.accountRepo.FindByUserID(ctx, tenantID, userID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account != nil {
		spinsTotal = account.SpinsTotal
	}

	attemptsLeft, err := s.attempts.AttemptsLeft(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	referralsTotal, err := s.referrals.CountReferrals(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	return &models.StatusResponse{
		AttemptsLeft:   attemptsLeft,
		SpinsTotal:     spinsTotal,
		ReferralsTotal: referralsTotal,
		ReferralLink:   s.referrals.ReferralLink(ctx, tenantID, userID),
	}, nil
}

// Spin plays the wheel once. The spin either fully completes (attempt
// reserved, record written) or fails before any write; referral credit and
// fallback scheduling come after the spin write and their failure never
// takes the prize away from the user.
func (s *SpinServiceImpl) Spin(ctx context.Context, tenantID string, req *models.SpinRequest) (*models.SpinResponse, error) {
	if req == nil || req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	if err := s.accountRepo.EnsureAccount(ctx, tenantID, req.UserID, req.Username); err != nil {
		return nil, fmt.Errorf("failed to ensure account: %w", err)
	}

	items, err := s.wheels.GetWheel(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	prize, err := s.wheels.SelectPrize(items)
	if err != nil {
		return nil, err
	}

	spin, err := s.attempts.RecordSpin(ctx, tenantID, req.UserID, prize)
	if err != nil {
		return nil, err
	}

	// Credit the referrer once the spin itself is safe. Duplicate edges and
	// self-referrals are quietly skipped; a store error here is logged and
	// does not undo the spin.
	if req.ReferrerID != "" {
		if _, refErr := s.referrals.AddReferral(ctx, tenantID, req.ReferrerID, req.UserID); refErr != nil {
			if errors.Is(refErr, ErrSelfReferral) || errors.Is(refErr, ErrInvalidInput) {
				slog.Info("Referral credit skipped", "reason", refErr, "tenant", tenantID, "userId", req.UserID)
			} else {
				slog.Error("Referral credit failed", "error", refErr, "tenant", tenantID, "userId", req.UserID)
			}
		}
	}

	if _, schedErr := s.fallback.Schedule(ctx, spin, req.Username); schedErr != nil {
		// The spin already succeeded for the user; the missing task is the
		// one thing the sweep cannot recover, so make it loud in the logs.
		slog.Error("Failed to schedule fallback task", "error", schedErr, "tenant", tenantID, "spinId", spin.ID.Hex())
	}

	attemptsLeft, err := s.attempts.AttemptsLeft(ctx, tenantID, req.UserID)
	if err != nil {
		slog.Error("Failed to compute remaining attempts after spin", "error", err, "tenant", tenantID, "userId", req.UserID)
		attemptsLeft = 0
	}

	return &models.SpinResponse{
		Prize:        prize,
		SpinID:       spin.ID.Hex(),
		AttemptsLeft: attemptsLeft,
	}, nil
}

// SubmitLead records contact details for a spin, notifies the tenant's lead
// channel and settles the fallback task as RESOLVED_FULL
func (s *SpinServiceImpl) SubmitLead(ctx context.Context, tenantID string, req *models.LeadRequest) error {
	if req == nil || req.UserID == "" || req.SpinID == "" {
		return fmt.Errorf("%w: user id and spin id are required", ErrInvalidInput)
	}
	spinID, err := primitive.ObjectIDFromHex(req.SpinID)
	if err != nil {
		return fmt.Errorf("%w: malformed spin id", ErrInvalidInput)
	}

	spin, err := s.spinRepo.FindByID(ctx, tenantID, spinID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: spin %s", ErrNotFound, req.SpinID)
		}
		return fmt.Errorf("failed to load spin: %w", err)
	}
	if spin.UserID != req.UserID {
		// Do not reveal that the spin exists under another user.
		return fmt.Errorf("%w: spin %s", ErrNotFound, req.SpinID)
	}

	lead := &models.Lead{
		TenantID: tenantID,
		SpinID:   spinID,
		UserID:   req.UserID,
		Name:     req.Name,
		Phone:    req.Phone,
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return fmt.Errorf("failed to persist lead: %w", err)
	}
	if err := s.spinRepo.MarkLeadCollected(ctx, tenantID, spinID); err != nil {
		return fmt.Errorf("failed to mark lead collected: %w", err)
	}

	s.notifyLead(ctx, tenantID, spin, lead)

	if err := s.fallback.CancelAsResolved(ctx, spinID); err != nil {
		// The lead is safe either way; a pending task will be settled as
		// RESOLVED_FULL by the sweep because the lead now exists.
		slog.Error("Failed to cancel fallback task after lead", "error", err, "tenant", tenantID, "spinId", req.SpinID)
	}

	slog.Info("Lead captured", "tenant", tenantID, "spinId", req.SpinID, "userId", req.UserID)
	return nil
}

// SpinHistory retrieves a user's spins, newest first
func (s *SpinServiceImpl) SpinHistory(ctx context.Context, tenantID, userID string, page, limit int) ([]*models.Spin, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	spins, err := s.spinRepo.FindByUserID(ctx, tenantID, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load spin history: %w", err)
	}
	return spins, nil
}

func (s *SpinServiceImpl) notifyLead(ctx context.Context, tenantID string, spin *models.Spin, lead *models.Lead) {
	text := fmt.Sprintf("New lead: %s / %s won %q (spin %s).",
		lead.Name, lead.Phone, spin.PrizeLabel, spin.ID.Hex())

	n, chatID := s.registry.ForTenant(ctx, tenantID)
	if err := n.Notify(ctx, chatID, text); err != nil {
		slog.Warn("Failed to deliver lead notification", "error", err, "tenant", tenantID, "spinId", spin.ID.Hex())
	}
}
