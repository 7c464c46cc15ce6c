package models

import (
	"time"
)

// Account represents a wheel player within a tenant. Accounts are created
// lazily on the first spin and are never deleted.
type Account struct {
	UserID      string    `bson:"userId" json:"userId"`
	TenantID    string    `bson:"tenantId" json:"tenantId"`
	DisplayName string    `bson:"displayName,omitempty" json:"displayName,omitempty"`
	SpinsTotal  int       `bson:"spinsTotal" json:"spinsTotal"`
	LastSpinAt  time.Time `bson:"lastSpinAt,omitempty" json:"lastSpinAt,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
