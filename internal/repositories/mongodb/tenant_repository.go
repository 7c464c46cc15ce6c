package mongodb

import (
	"context"
	"time"

	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure TenantRepository implements the interface
var _ repositories.TenantRepository = (*TenantRepository)(nil)

// TenantRepository handles MongoDB operations for tenant settings
type TenantRepository struct {
	collection *mongo.Collection
}

// NewTenantRepository creates a new TenantRepository
func NewTenantRepository(db *mongo.Database) *TenantRepository {
	return &TenantRepository{
		collection: db.Collection("tenants"),
	}
}

// FindByID finds tenant settings by tenant id
func (r *TenantRepository) FindByID(ctx context.Context, tenantID string) (*models.TenantSettings, error) {
	var settings models.TenantSettings
	filter := bson.M{"_id": tenantID}
	err := r.collection.FindOne(ctx, filter).Decode(&settings)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &settings, nil
}

// Upsert creates or replaces the settings for a tenant
func (r *TenantRepository) Upsert(ctx context.Context, settings *models.TenantSettings) error {
	now := time.Now()
	settings.UpdatedAt = now
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}
	filter := bson.M{"_id": settings.ID}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, filter, settings, opts)
	return err
}
