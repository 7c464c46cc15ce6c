package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/spinmate/wheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrQuotaReached is returned by IncrementSpinsWithQuota when the account's
// spin counter is already at or above the supplied quota, i.e. the
// conditional increment matched no document.
var ErrQuotaReached = errors.New("spin quota reached")

// ErrStateConflict is returned by TransitionState when the task is no longer
// in the expected state, i.e. another caller won the transition.
var ErrStateConflict = errors.New("task state conflict")

// AccountRepository defines the interface for player account operations
type AccountRepository interface {
	FindByUserID(ctx context.Context, tenantID, userID string) (*models.Account, error)
	// EnsureAccount creates the account on first contact (upsert) and
	// refreshes the display name when one is supplied.
	EnsureAccount(ctx context.Context, tenantID, userID, displayName string) error
	// IncrementSpinsWithQuota atomically increments spinsTotal only while
	// spinsTotal < quota, and stamps lastSpinAt. Returns ErrQuotaReached
	// when the condition does not match.
	IncrementSpinsWithQuota(ctx context.Context, tenantID, userID string, quota int) error
	// DecrementSpins compensates a reserved attempt whose spin record could
	// not be written.
	DecrementSpins(ctx context.Context, tenantID, userID string) error
	Count(ctx context.Context, tenantID string) (int64, error)
}

// SpinRepository defines the interface for spin record operations
type SpinRepository interface {
	Create(ctx context.Context, spin *models.Spin) error
	FindByID(ctx context.Context, tenantID string, id primitive.ObjectID) (*models.Spin, error)
	FindByUserID(ctx context.Context, tenantID, userID string, page, limit int) ([]*models.Spin, error)
	// MarkLeadCollected flips leadCollected to true. The flip is one-way.
	MarkLeadCollected(ctx context.Context, tenantID string, id primitive.ObjectID) error
	Count(ctx context.Context, tenantID string) (int64, error)
}

// ReferralRepository defines the interface for referral edge operations
type ReferralRepository interface {
	// CreateIfAbsent inserts the edge unless one already exists for the
	// ordered (referrer, referred) pair. Returns created=false on repeat.
	CreateIfAbsent(ctx context.Context, edge *models.ReferralEdge) (created bool, err error)
	CountByReferrer(ctx context.Context, tenantID, referrerID string) (int64, error)
	FindByReferrer(ctx context.Context, tenantID, referrerID string) ([]*models.ReferralEdge, error)
}

// LeadRepository defines the interface for captured lead operations
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	FindBySpinID(ctx context.Context, tenantID string, spinID primitive.ObjectID) (*models.Lead, error)
	Count(ctx context.Context, tenantID string) (int64, error)
}

// FallbackTaskRepository defines the interface for fallback task operations
type FallbackTaskRepository interface {
	Create(ctx context.Context, task *models.FallbackTask) error
	FindBySpinID(ctx context.Context, spinID primitive.ObjectID) (*models.FallbackTask, error)
	// TransitionState moves the task from fromState to toState with a
	// conditional update. Returns ErrStateConflict when the task was not in
	// fromState at write time.
	TransitionState(ctx context.Context, spinID primitive.ObjectID, fromState, toState string) error
	// FindDuePending returns up to limit tasks across all tenants with
	// state PENDING and dueAt at or before now, oldest first.
	FindDuePending(ctx context.Context, now time.Time, limit int) ([]*models.FallbackTask, error)
}

// WheelRepository defines the interface for wheel configuration operations
type WheelRepository interface {
	FindByTenant(ctx context.Context, tenantID string) ([]*models.WheelItem, error)
	// ReplaceAll swaps the tenant's wheel for the supplied items (bulk
	// delete + insert, preserving the given order as position).
	ReplaceAll(ctx context.Context, tenantID string, items []*models.WheelItem) error
}

// TenantRepository defines the interface for tenant settings operations
type TenantRepository interface {
	FindByID(ctx context.Context, tenantID string) (*models.TenantSettings, error)
	Upsert(ctx context.Context, settings *models.TenantSettings) error
}

// AdminUserRepository defines the interface for admin user operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}
