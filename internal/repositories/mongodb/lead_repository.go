package mongodb

import (
	"context"
	"time"

	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure LeadRepository implements the interface
var _ repositories.LeadRepository = (*LeadRepository)(nil)

// LeadRepository handles MongoDB operations for captured leads
type LeadRepository struct {
	collection *mongo.Collection
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{
		collection: db.Collection("leads"),
	}
}

// Create inserts a new lead
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	lead.ID = primitive.NewObjectID()
	lead.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, lead)
	return err
}

// FindBySpinID finds the lead submitted for a spin, if any
func (r *LeadRepository) FindBySpinID(ctx context.Context, tenantID string, spinID primitive.ObjectID) (*models.Lead, error) {
	var lead models.Lead
	filter := bson.M{"tenantId": tenantID, "spinId": spinID}
	err := r.collection.FindOne(ctx, filter).Decode(&lead)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &lead, nil
}

// Count returns the number of leads in a tenant
func (r *LeadRepository) Count(ctx context.Context, tenantID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"tenantId": tenantID})
}
