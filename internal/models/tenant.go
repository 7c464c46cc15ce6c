package models

import (
	"time"
)

// TenantSettings holds the per-deployment client configuration: which bot
// delivers notifications, where fallback leads go, and the base URL for
// referral links. Missing fields fall back to the global configuration.
type TenantSettings struct {
	ID               string    `bson:"_id" json:"id"`
	BotToken         string    `bson:"botToken,omitempty" json:"-"`
	LeadChatID       string    `bson:"leadChatId,omitempty" json:"leadChatId,omitempty"`
	ReferralLinkBase string    `bson:"referralLinkBase,omitempty" json:"referralLinkBase,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}
