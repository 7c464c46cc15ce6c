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

// Compile-time check to ensure ReferralRepository implements the interface
var _ repositories.ReferralRepository = (*ReferralRepository)(nil)

// ReferralRepository handles MongoDB operations for referral edges
type ReferralRepository struct {
	collection *mongo.Collection
}

// NewReferralRepository creates a new ReferralRepository
func NewReferralRepository(db *mongo.Database) *ReferralRepository {
	return &ReferralRepository{
		collection: db.Collection("referrals"),
	}
}

// CreateIfAbsent inserts the edge unless the ordered pair already exists.
// The natural _id plus an upsert makes the insert idempotent; UpsertedCount
// tells us whether this call created the edge.
func (r *ReferralRepository) CreateIfAbsent(ctx context.Context, edge *models.ReferralEdge) (bool, error) {
	if edge.ID == "" {
		edge.ID = models.ReferralEdgeKey(edge.TenantID, edge.ReferrerID, edge.ReferredID)
	}
	if edge.CreatedAt.IsZero() {
		edge.CreatedAt = time.Now()
	}
	filter := bson.M{"_id": edge.ID}
	update := bson.M{"$setOnInsert": edge}
	opts := options.Update().SetUpsert(true)
	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, err
	}
	return result.UpsertedCount > 0, nil
}

// CountByReferrer counts edges where the user is the referrer
func (r *ReferralRepository) CountByReferrer(ctx context.Context, tenantID, referrerID string) (int64, error) {
	filter := bson.M{"tenantId": tenantID, "referrerId": referrerID}
	return r.collection.CountDocuments(ctx, filter)
}

// FindByReferrer retrieves all edges where the user is the referrer
func (r *ReferralRepository) FindByReferrer(ctx context.Context, tenantID, referrerID string) ([]*models.ReferralEdge, error) {
	filter := bson.M{"tenantId": tenantID, "referrerId": referrerID}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var edges []*models.ReferralEdge
	if err = cursor.All(ctx, &edges); err != nil {
		return nil, err
	}
	if edges == nil {
		edges = []*models.ReferralEdge{}
	}
	return edges, nil
}
