package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fallback task states. A task starts PENDING and moves to exactly one of
// the terminal states; it never goes back.
const (
	FallbackStatePending          = "PENDING"
	FallbackStateResolvedFull     = "RESOLVED_FULL"
	FallbackStateResolvedFallback = "RESOLVED_FALLBACK"
)

// FallbackTask tracks the reconciliation of a single spin: either a full
// lead arrives in time, or a fallback notification goes out once the task
// is due. Keyed by the spin id, one task per spin.
type FallbackTask struct {
	SpinID     primitive.ObjectID `bson:"_id" json:"spinId"`
	TenantID   string             `bson:"tenantId" json:"tenantId"`
	UserID     string             `bson:"userId" json:"userId"`
	Username   string             `bson:"username,omitempty" json:"username,omitempty"`
	PrizeLabel string             `bson:"prizeLabel" json:"prizeLabel"`
	State      string             `bson:"state" json:"state"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	DueAt      time.Time          `bson:"dueAt" json:"dueAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Resolved reports whether the task has reached a terminal state.
func (t *FallbackTask) Resolved() bool {
	return t.State != FallbackStatePending
}
