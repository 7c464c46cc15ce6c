package services

import (
	"context"

	"github.com/spinmate/wheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WheelService defines the interface for wheel configuration and prize selection
type WheelService interface {
	// GetWheel retrieves the tenant's wheel items in display order
	GetWheel(ctx context.Context, tenantID string) ([]*models.WheelItem, error)

	// ReplaceWheel swaps the tenant's wheel for the supplied items and
	// returns the stored count
	ReplaceWheel(ctx context.Context, tenantID string, items []models.WheelItemInput) (int, error)

	// SelectPrize picks one label from the items by weighted random choice
	SelectPrize(items []*models.WheelItem) (string, error)
}

// AttemptService defines the interface for spin attempt accounting
type AttemptService interface {
	// QuotaFor computes the user's total allowance: base + bonus * referrals
	QuotaFor(ctx context.Context, tenantID, userID string) (int, error)

	// AttemptsLeft computes the remaining attempts, never negative
	AttemptsLeft(ctx context.Context, tenantID, userID string) (int, error)

	// RecordSpin reserves one attempt atomically and persists the spin record
	RecordSpin(ctx context.Context, tenantID, userID, prizeLabel string) (*models.Spin, error)
}

// ReferralService defines the interface for referral credit operations
type ReferralService interface {
	// AddReferral records the edge once; repeats return created=false
	AddReferral(ctx context.Context, tenantID, referrerID, referredID string) (created bool, err error)

	// CountReferrals counts users brought in by the given referrer
	CountReferrals(ctx context.Context, tenantID, userID string) (int64, error)

	// ReferralLink builds the user's shareable invite link
	ReferralLink(ctx context.Context, tenantID, userID string) string
}

// FallbackService defines the interface for the per-spin lead reconciliation
type FallbackService interface {
	// Schedule creates the pending task for a spin and arms its timer
	Schedule(ctx context.Context, spin *models.Spin, username string) (*models.FallbackTask, error)

	// Resolve settles a task exactly once: full lead present -> RESOLVED_FULL,
	// otherwise RESOLVED_FALLBACK plus one fallback notification
	Resolve(ctx context.Context, spinID primitive.ObjectID) error

	// CancelAsResolved marks the task RESOLVED_FULL after a lead submission
	CancelAsResolved(ctx context.Context, spinID primitive.ObjectID) error

	// Close stops all armed in-process timers
	Close()
}

// SpinService defines the public operation surface consumed by the bot frontend
type SpinService interface {
	GetStatus(ctx context.Context, tenantID, userID string) (*models.StatusResponse, error)
	Spin(ctx context.Context, tenantID string, req *models.SpinRequest) (*models.SpinResponse, error)
	SubmitLead(ctx context.Context, tenantID string, req *models.LeadRequest) error
	SpinHistory(ctx context.Context, tenantID, userID string, page, limit int) ([]*models.Spin, error)
}

// AuthService defines the interface for admin authentication
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
	Register(ctx context.Context, email, password, role string) (*models.AdminUser, error)
}
