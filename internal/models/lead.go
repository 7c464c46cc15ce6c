package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead holds the contact details a user left for a won prize.
type Lead struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID  string             `bson:"tenantId" json:"tenantId"`
	SpinID    primitive.ObjectID `bson:"spinId" json:"spinId"`
	UserID    string             `bson:"userId" json:"userId"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
