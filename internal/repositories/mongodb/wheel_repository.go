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

// Compile-time check to ensure WheelRepository implements the interface
var _ repositories.WheelRepository = (*WheelRepository)(nil)

// WheelRepository handles MongoDB operations for wheel configuration
type WheelRepository struct {
	collection *mongo.Collection
}

// NewWheelRepository creates a new WheelRepository
func NewWheelRepository(db *mongo.Database) *WheelRepository {
	return &WheelRepository{
		collection: db.Collection("wheel_items"),
	}
}

// FindByTenant retrieves the tenant's wheel items in display order
func (r *WheelRepository) FindByTenant(ctx context.Context, tenantID string) ([]*models.WheelItem, error) {
	filter := bson.M{"tenantId": tenantID}
	opts := options.Find().SetSort(bson.M{"position": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*models.WheelItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.WheelItem{}
	}
	return items, nil
}

// ReplaceAll swaps the tenant's wheel for the supplied items
func (r *WheelRepository) ReplaceAll(ctx context.Context, tenantID string, items []*models.WheelItem) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"tenantId": tenantID}); err != nil {
		return err
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(items))
	for i, item := range items {
		item.ID = primitive.NewObjectID()
		item.TenantID = tenantID
		item.Position = i
		item.CreatedAt = now
		docs = append(docs, item)
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}
