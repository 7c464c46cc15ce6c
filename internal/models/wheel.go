package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WheelItem is one sector of a tenant's prize wheel. Weight is relative;
// items with weight 0 are only selectable when every weight is degenerate.
type WheelItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID string             `bson:"tenantId" json:"tenantId"`
	Label    string             `bson:"label" json:"label"`
	Weight   int                `bson:"weight" json:"weight"`
	Position int                `bson:"position" json:"position"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
}

// WheelItemInput is the admin-facing shape for replacing the wheel.
type WheelItemInput struct {
	Label  string `json:"label" binding:"required"`
	Weight int    `json:"weight"`
}
