package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dandantas/wikigeo/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LockRepository handles distributed lock operations for scheduled refreshes
type LockRepository struct {
	collection *mongo.Collection
}

// NewLockRepository creates a new lock repository
func NewLockRepository(db *MongoDB) *LockRepository {
	return &LockRepository{
		collection: db.GetCollection(CollectionScheduleLocks),
	}
}

// AcquireLock attempts to acquire the named distributed lock. Returns true if
// the lock was successfully acquired, false if it is already held by another
// instance. Uses FindOneAndUpdate with upsert for atomic acquisition.
func (r *LockRepository) AcquireLock(ctx context.Context, name, instanceID string, ttl time.Duration) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	// Either no lock exists under this name, or the existing lock expired
	filter := bson.M{
		"name": name,
		"$or": []bson.M{
			{"expires_at": bson.M{"$lt": now}},
			{"expires_at": bson.M{"$exists": false}},
		},
	}

	update := bson.M{
		"$set": bson.M{
			"name":       name,
			"locked_by":  instanceID,
			"locked_at":  now,
			"expires_at": expiresAt,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result model.ScheduleLock
	err := r.collection.FindOneAndUpdate(ctxTimeout, filter, update, opts).Decode(&result)

	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Lock is held by another instance and has not expired
			return false, nil
		}
		// A duplicate key error means we raced another instance for the upsert
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	if result.LockedBy != instanceID {
		return false, nil
	}

	slog.Debug("Successfully acquired lock",
		"name", name,
		"instance_id", instanceID,
		"expires_at", expiresAt,
	)

	return true, nil
}

// ReleaseLock releases the named lock, but only if it is owned by the given
// instance. This prevents an instance from releasing another's lock.
func (r *LockRepository) ReleaseLock(ctx context.Context, name, instanceID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctxTimeout, bson.M{
		"name":      name,
		"locked_by": instanceID,
	})
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}

	return nil
}
