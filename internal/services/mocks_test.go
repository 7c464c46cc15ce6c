package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spinmate/wheel-backend/internal/config"
	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repositories with the same conditional-write semantics as the
// MongoDB implementations: missing documents surface mongo.ErrNoDocuments,
// guarded updates that match nothing surface the repository sentinels.

func accountKey(tenantID, userID string) string {
	return tenantID + "/" + userID
}

type mockAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*models.Account)}
}

func (m *mockAccountRepo) FindByUserID(ctx context.Context, tenantID, userID string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[accountKey(tenantID, userID)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *account
	return &cp, nil
}

func (m *mockAccountRepo) EnsureAccount(ctx context.Context, tenantID, userID, displayName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := accountKey(tenantID, userID)
	account, ok := m.accounts[key]
	if !ok {
		account = &models.Account{
			UserID:    userID,
			TenantID:  tenantID,
			CreatedAt: time.Now(),
		}
		m.accounts[key] = account
	}
	if displayName != "" {
		account.DisplayName = displayName
	}
	account.UpdatedAt = time.Now()
	return nil
}

func (m *mockAccountRepo) IncrementSpinsWithQuota(ctx context.Context, tenantID, userID string, quota int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[accountKey(tenantID, userID)]
	if !ok || account.SpinsTotal >= quota {
		return repositories.ErrQuotaReached
	}
	account.SpinsTotal++
	account.LastSpinAt = time.Now()
	return nil
}

func (m *mockAccountRepo) DecrementSpins(ctx context.Context, tenantID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[accountKey(tenantID, userID)]
	if ok && account.SpinsTotal > 0 {
		account.SpinsTotal--
	}
	return nil
}

func (m *mockAccountRepo) Count(ctx context.Context, tenantID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, account := range m.accounts {
		if account.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type mockSpinRepo struct {
	mu    sync.Mutex
	spins map[primitive.ObjectID]*models.Spin

	createErr error
}

func newMockSpinRepo() *mockSpinRepo {
	return &mockSpinRepo{spins: make(map[primitive.ObjectID]*models.Spin)}
}

func (m *mockSpinRepo) Create(ctx context.Context, spin *models.Spin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	spin.ID = primitive.NewObjectID()
	spin.CreatedAt = time.Now()
	cp := *spin
	m.spins[spin.ID] = &cp
	return nil
}

func (m *mockSpinRepo) FindByID(ctx context.Context, tenantID string, id primitive.ObjectID) (*models.Spin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	spin, ok := m.spins[id]
	if !ok || spin.TenantID != tenantID {
		return nil, mongo.ErrNoDocuments
	}
	cp := *spin
	return &cp, nil
}

func (m *mockSpinRepo) FindByUserID(ctx context.Context, tenantID, userID string, page, limit int) ([]*models.Spin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Spin
	for _, spin := range m.spins {
		if spin.TenantID == tenantID && spin.UserID == userID {
			cp := *spin
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(out) {
		return nil, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (m *mockSpinRepo) MarkLeadCollected(ctx context.Context, tenantID string, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	spin, ok := m.spins[id]
	if !ok || spin.TenantID != tenantID {
		return mongo.ErrNoDocuments
	}
	spin.LeadCollected = true
	return nil
}

func (m *mockSpinRepo) Count(ctx context.Context, tenantID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, spin := range m.spins {
		if spin.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type mockReferralRepo struct {
	mu    sync.Mutex
	edges map[string]*models.ReferralEdge
}

func newMockReferralRepo() *mockReferralRepo {
	return &mockReferralRepo{edges: make(map[string]*models.ReferralEdge)}
}

func (m *mockReferralRepo) CreateIfAbsent(ctx context.Context, edge *models.ReferralEdge) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := models.ReferralEdgeKey(edge.TenantID, edge.ReferrerID, edge.ReferredID)
	if _, ok := m.edges[key]; ok {
		return false, nil
	}
	cp := *edge
	cp.ID = key
	cp.CreatedAt = time.Now()
	m.edges[key] = &cp
	return true, nil
}

func (m *mockReferralRepo) CountByReferrer(ctx context.Context, tenantID, referrerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, edge := range m.edges {
		if edge.TenantID == tenantID && edge.ReferrerID == referrerID {
			n++
		}
	}
	return n, nil
}

func (m *mockReferralRepo) FindByReferrer(ctx context.Context, tenantID, referrerID string) ([]*models.ReferralEdge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ReferralEdge
	for _, edge := range m.edges {
		if edge.TenantID == tenantID && edge.ReferrerID == referrerID {
			cp := *edge
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockLeadRepo struct {
	mu    sync.Mutex
	leads map[primitive.ObjectID]*models.Lead

	findErr error
}

func newMockLeadRepo() *mockLeadRepo {
	return &mockLeadRepo{leads: make(map[primitive.ObjectID]*models.Lead)}
}

func (m *mockLeadRepo) Create(ctx context.Context, lead *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead.ID = primitive.NewObjectID()
	lead.CreatedAt = time.Now()
	cp := *lead
	m.leads[lead.SpinID] = &cp
	return nil
}

func (m *mockLeadRepo) FindBySpinID(ctx context.Context, tenantID string, spinID primitive.ObjectID) (*models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	lead, ok := m.leads[spinID]
	if !ok || lead.TenantID != tenantID {
		return nil, mongo.ErrNoDocuments
	}
	cp := *lead
	return &cp, nil
}

func (m *mockLeadRepo) Count(ctx context.Context, tenantID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, lead := range m.leads {
		if lead.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type mockFallbackTaskRepo struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]*models.FallbackTask
}

func newMockFallbackTaskRepo() *mockFallbackTaskRepo {
	return &mockFallbackTaskRepo{tasks: make(map[primitive.ObjectID]*models.FallbackTask)}
}

func (m *mockFallbackTaskRepo) Create(ctx context.Context, task *models.FallbackTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	cp := *task
	m.tasks[task.SpinID] = &cp
	return nil
}

func (m *mockFallbackTaskRepo) FindBySpinID(ctx context.Context, spinID primitive.ObjectID) (*models.FallbackTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[spinID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *task
	return &cp, nil
}

func (m *mockFallbackTaskRepo) TransitionState(ctx context.Context, spinID primitive.ObjectID, fromState, toState string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[spinID]
	if !ok || task.State != fromState {
		return repositories.ErrStateConflict
	}
	task.State = toState
	task.UpdatedAt = time.Now()
	return nil
}

func (m *mockFallbackTaskRepo) FindDuePending(ctx context.Context, now time.Time, limit int) ([]*models.FallbackTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.FallbackTask
	for _, task := range m.tasks {
		if task.State == models.FallbackStatePending && !task.DueAt.After(now) {
			cp := *task
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockWheelRepo struct {
	mu    sync.Mutex
	items map[string][]*models.WheelItem
}

func newMockWheelRepo() *mockWheelRepo {
	return &mockWheelRepo{items: make(map[string][]*models.WheelItem)}
}

func (m *mockWheelRepo) FindByTenant(ctx context.Context, tenantID string) ([]*models.WheelItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.WheelItem, 0, len(m.items[tenantID]))
	for _, item := range m.items[tenantID] {
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockWheelRepo) ReplaceAll(ctx context.Context, tenantID string, items []*models.WheelItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]*models.WheelItem, 0, len(items))
	for i, item := range items {
		cp := *item
		cp.ID = primitive.NewObjectID()
		cp.TenantID = tenantID
		cp.Position = i
		cp.CreatedAt = time.Now()
		stored = append(stored, &cp)
	}
	m.items[tenantID] = stored
	return nil
}

type mockTenantRepo struct {
	mu      sync.Mutex
	tenants map[string]*models.TenantSettings
}

func newMockTenantRepo() *mockTenantRepo {
	return &mockTenantRepo{tenants: make(map[string]*models.TenantSettings)}
}

func (m *mockTenantRepo) FindByID(ctx context.Context, tenantID string) (*models.TenantSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	settings, ok := m.tenants[tenantID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *settings
	return &cp, nil
}

func (m *mockTenantRepo) Upsert(ctx context.Context, settings *models.TenantSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *settings
	m.tenants[settings.ID] = &cp
	return nil
}

type mockAdminUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.AdminUser
}

func newMockAdminUserRepo() *mockAdminUserRepo {
	return &mockAdminUserRepo{users: make(map[string]*models.AdminUser)}
}

func (m *mockAdminUserRepo) Create(ctx context.Context, adminUser *models.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	adminUser.CreatedAt = time.Now()
	cp := *adminUser
	m.users[adminUser.Email] = &cp
	return nil
}

func (m *mockAdminUserRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *user
	return &cp, nil
}

// Interface conformance for the mocks
var (
	_ repositories.AccountRepository      = (*mockAccountRepo)(nil)
	_ repositories.SpinRepository         = (*mockSpinRepo)(nil)
	_ repositories.ReferralRepository     = (*mockReferralRepo)(nil)
	_ repositories.LeadRepository         = (*mockLeadRepo)(nil)
	_ repositories.FallbackTaskRepository = (*mockFallbackTaskRepo)(nil)
	_ repositories.WheelRepository        = (*mockWheelRepo)(nil)
	_ repositories.TenantRepository       = (*mockTenantRepo)(nil)
	_ repositories.AdminUserRepository    = (*mockAdminUserRepo)(nil)
)

func testConfig() *config.Config {
	return &config.Config{
		Wheel: config.WheelConfig{BaseAttempts: 1, ReferralBonus: 1},
		JWT:   config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600},
		Telegram: config.TelegramConfig{
			LeadChatID:       "ops-chat",
			ReferralLinkBase: "https://t.me/testbot?start=ref_",
			MockNotifier:     true,
		},
	}
}

func testRegistry(cfg *config.Config) *NotifierRegistry {
	return NewNotifierRegistry(newMockTenantRepo(), cfg)
}
