package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Spin represents a single wheel play and its prize outcome.
// LeadCollected flips to true exactly once, when the user submits the
// contact form for this spin.
type Spin struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID      string             `bson:"tenantId" json:"tenantId"`
	UserID        string             `bson:"userId" json:"userId"`
	PrizeLabel    string             `bson:"prizeLabel" json:"prizeLabel"`
	LeadCollected bool               `bson:"leadCollected" json:"leadCollected"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
