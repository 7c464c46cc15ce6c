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

// Compile-time check to ensure FallbackTaskRepository implements the interface
var _ repositories.FallbackTaskRepository = (*FallbackTaskRepository)(nil)

// FallbackTaskRepository handles MongoDB operations for fallback tasks
type FallbackTaskRepository struct {
	collection *mongo.Collection
}

// NewFallbackTaskRepository creates a new FallbackTaskRepository
func NewFallbackTaskRepository(db *mongo.Database) *FallbackTaskRepository {
	return &FallbackTaskRepository{
		collection: db.Collection("fallback_tasks"),
	}
}

// Create inserts a new fallback task keyed by its spin id
func (r *FallbackTaskRepository) Create(ctx context.Context, task *models.FallbackTask) error {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, task)
	return err
}

// FindBySpinID finds a task by its spin id
func (r *FallbackTaskRepository) FindBySpinID(ctx context.Context, spinID primitive.ObjectID) (*models.FallbackTask, error) {
	var task models.FallbackTask
	filter := bson.M{"_id": spinID}
	err := r.collection.FindOne(ctx, filter).Decode(&task)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &task, nil
}

// TransitionState performs the compare-and-set state move. The expected
// state sits in the filter, so only one of several concurrent callers can
// match the document; the losers get ErrStateConflict.
func (r *FallbackTaskRepository) TransitionState(ctx context.Context, spinID primitive.ObjectID, fromState, toState string) error {
	filter := bson.M{"_id": spinID, "state": fromState}
	update := bson.M{"$set": bson.M{"state": toState, "updatedAt": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrStateConflict
	}
	return nil
}

// FindDuePending returns due tasks still pending, oldest first, bounded
func (r *FallbackTaskRepository) FindDuePending(ctx context.Context, now time.Time, limit int) ([]*models.FallbackTask, error) {
	if limit < 1 {
		limit = 50
	}
	filter := bson.M{
		"state": models.FallbackStatePending,
		"dueAt": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.M{"dueAt": 1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []*models.FallbackTask
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*models.FallbackTask{}
	}
	return tasks, nil
}
