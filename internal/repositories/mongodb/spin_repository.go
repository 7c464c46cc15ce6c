package mongodb

import (
	"context"
	"time"

	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure SpinRepository implements the interface
var _ repositories.SpinRepository = (*SpinRepository)(nil)

// SpinRepository handles MongoDB operations for spin records
type SpinRepository struct {
	collection *mongo.Collection
}

// NewSpinRepository creates a new SpinRepository
func NewSpinRepository(db *mongo.Database) *SpinRepository {
	return &SpinRepository{
		collection: db.Collection("spins"),
	}
}

// Create inserts a new spin record
func (r *SpinRepository) Create(ctx context.Context, spin *models.Spin) error {
	if spin.ID.IsZero() {
		spin.ID = primitive.NewObjectID()
	}
	spin.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, spin)
	return err
}

// FindByID finds a spin by id within a tenant
func (r *SpinRepository) FindByID(ctx context.Context, tenantID string, id primitive.ObjectID) (*models.Spin, error) {
	var spin models.Spin
	filter := bson.M{"_id": id, "tenantId": tenantID}
	err := r.collection.FindOne(ctx, filter).Decode(&spin)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &spin, nil
}

// FindByUserID retrieves a user's spins, newest first, with pagination
func (r *SpinRepository) FindByUserID(ctx context.Context, tenantID, userID string, page, limit int) ([]*models.Spin, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	filter := bson.M{"tenantId": tenantID, "userId": userID}
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var spins []*models.Spin
	if err = cursor.All(ctx, &spins); err != nil {
		return nil, err
	}
	if spins == nil {
		spins = []*models.Spin{}
	}
	return spins, nil
}

// MarkLeadCollected flips leadCollected to true for a spin
func (r *SpinRepository) MarkLeadCollected(ctx context.Context, tenantID string, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "tenantId": tenantID}
	update := bson.M{"$set": bson.M{"leadCollected": true}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Count returns the number of spins in a tenant
func (r *SpinRepository) Count(ctx context.Context, tenantID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"tenantId": tenantID})
}
