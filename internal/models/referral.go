package models

import (
	"fmt"
	"time"
)

// ReferralEdge records that referrerId brought referredId to the wheel.
// The document key is the natural (tenant, referrer, referred) triple, so
// the store enforces at most one edge per ordered pair.
type ReferralEdge struct {
	ID         string    `bson:"_id" json:"id"`
	TenantID   string    `bson:"tenantId" json:"tenantId"`
	ReferrerID string    `bson:"referrerId" json:"referrerId"`
	ReferredID string    `bson:"referredId" json:"referredId"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// ReferralEdgeKey builds the natural document key for a referral edge.
func ReferralEdgeKey(tenantID, referrerID, referredID string) string {
	return fmt.Sprintf("%s:%s:%s", tenantID, referrerID, referredID)
}
