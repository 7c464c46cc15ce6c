package services

import (
	"context"
	"errors"
	"sync"

	"github.com/spinmate/wheel-backend/internal/config"
	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"github.com/spinmate/wheel-backend/pkg/notifier"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// tenantClient bundles the resolved delivery settings for one tenant.
type tenantClient struct {
	notifier notifier.Notifier
	chatID   string
	linkBase string
}

// NotifierRegistry hands out per-tenant notifier clients. Clients are built
// on first use from the tenant's stored settings, retained for the process
// lifetime, and rebuildable from the store at any time; the cache is never
// authoritative. The registry is constructor-injected, not a package global.
type NotifierRegistry struct {
	tenantRepo repositories.TenantRepository
	cfg        *config.Config

	mu      sync.RWMutex
	clients map[string]*tenantClient
}

// NewNotifierRegistry creates a new NotifierRegistry
func NewNotifierRegistry(tenantRepo repositories.TenantRepository, cfg *config.Config) *NotifierRegistry {
	return &NotifierRegistry{
		tenantRepo: tenantRepo,
		cfg:        cfg,
		clients:    make(map[string]*tenantClient),
	}
}

// ForTenant returns the notifier and lead chat for a tenant
func (r *NotifierRegistry) ForTenant(ctx context.Context, tenantID string) (notifier.Notifier, string) {
	client := r.clientFor(ctx, tenantID)
	return client.notifier, client.chatID
}

// LinkBase returns the referral link base for a tenant
func (r *NotifierRegistry) LinkBase(ctx context.Context, tenantID string) string {
	return r.clientFor(ctx, tenantID).linkBase
}

// Forget drops a tenant's cached client so the next use rebuilds it from
// the store, e.g. after its settings changed.
func (r *NotifierRegistry) Forget(tenantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, tenantID)
}

func (r *NotifierRegistry) clientFor(ctx context.Context, tenantID string) *tenantClient {
	r.mu.RLock()
	client, ok := r.clients[tenantID]
	r.mu.RUnlock()
	if ok {
		return client
	}

	settings, err := r.tenantRepo.FindByID(ctx, tenantID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		// Store unavailable: fall back to the global bot for this call but
		// do not cache, so a recovered store repopulates correctly.
		slog.Error("Failed to load tenant settings", "error", err, "tenant", tenantID)
		return r.build(nil)
	}

	client = r.build(settings)

	r.mu.Lock()
	r.clients[tenantID] = client
	r.mu.Unlock()
	return client
}

func (r *NotifierRegistry) build(settings *models.TenantSettings) *tenantClient {
	botToken := r.cfg.Telegram.BotToken
	chatID := r.cfg.Telegram.LeadChatID
	linkBase := r.cfg.Telegram.ReferralLinkBase
	if settings != nil {
		if settings.BotToken != "" {
			botToken = settings.BotToken
		}
		if settings.LeadChatID != "" {
			chatID = settings.LeadChatID
		}
		if settings.ReferralLinkBase != "" {
			linkBase = settings.ReferralLinkBase
		}
	}

	var n notifier.Notifier
	if r.cfg.Telegram.MockNotifier {
		n = notifier.NewMockNotifier("TELEGRAM")
	} else {
		n = notifier.NewTelegramNotifier(botToken)
	}

	return &tenantClient{
		notifier: n,
		chatID:   chatID,
		linkBase: linkBase,
	}
}
