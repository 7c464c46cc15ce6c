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

// Compile-time check to ensure AccountRepository implements the interface
var _ repositories.AccountRepository = (*AccountRepository)(nil)

// AccountRepository handles MongoDB operations for player accounts
type AccountRepository struct {
	collection *mongo.Collection
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		collection: db.Collection("accounts"),
	}
}

// FindByUserID finds an account by tenant and user id
func (r *AccountRepository) FindByUserID(ctx context.Context, tenantID, userID string) (*models.Account, error) {
	var account models.Account
	filter := bson.M{"tenantId": tenantID, "userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&account)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &account, nil
}

// EnsureAccount creates the account if it does not exist yet and refreshes
// the display name when one is supplied.
func (r *AccountRepository) EnsureAccount(ctx context.Context, tenantID, userID, displayName string) error {
	now := time.Now()
	filter := bson.M{"tenantId": tenantID, "userId": userID}
	set := bson.M{"updatedAt": now}
	if displayName != "" {
		set["displayName"] = displayName
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"tenantId":   tenantID,
			"userId":     userID,
			"spinsTotal": 0,
			"createdAt":  now,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// IncrementSpinsWithQuota atomically increments spinsTotal while it is still
// below the quota. The condition lives in the filter, so two concurrent
// spins cannot both pass a check-then-write gap.
func (r *AccountRepository) IncrementSpinsWithQuota(ctx context.Context, tenantID, userID string, quota int) error {
	now := time.Now()
	filter := bson.M{
		"tenantId":   tenantID,
		"userId":     userID,
		"spinsTotal": bson.M{"$lt": quota},
	}
	update := bson.M{
		"$inc": bson.M{"spinsTotal": 1},
		"$set": bson.M{"lastSpinAt": now, "updatedAt": now},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrQuotaReached
	}
	return nil
}

// DecrementSpins rolls back one reserved attempt. Guarded so the counter
// never drops below zero.
func (r *AccountRepository) DecrementSpins(ctx context.Context, tenantID, userID string) error {
	filter := bson.M{
		"tenantId":   tenantID,
		"userId":     userID,
		"spinsTotal": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"spinsTotal": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Count returns the number of accounts in a tenant
func (r *AccountRepository) Count(ctx context.Context, tenantID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"tenantId": tenantID})
}
