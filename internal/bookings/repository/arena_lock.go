package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"paddock/pkg/config"
	"paddock/pkg/model"
)

const LockCollectionName = "Arena_locks"

// ArenaLockRepository provides the per-arena advisory lock. The lock document
// uses the arena ID as _id, so at most one writer holds an arena at a time;
// a TTL index on expires_at reaps locks abandoned by crashed processes.
type ArenaLockRepository interface {
	Acquire(ctx context.Context, arenaID string, ttl time.Duration) (*model.ArenaLock, error)
	Release(ctx context.Context, arenaID string) error
}

type mongoArenaLockRepository struct {
	collection *mongo.Collection
}

func NewArenaLockRepository(cfg *config.Config) ArenaLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoArenaLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire inserts the lock document. A duplicate key error means another
// request holds the arena; callers map that to a conflict.
func (r *mongoArenaLockRepository) Acquire(ctx context.Context, arenaID string, ttl time.Duration) (*model.ArenaLock, error) {
	now := time.Now().UTC()
	lock := &model.ArenaLock{
		ID:        arenaID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		return nil, err
	}

	return lock, nil
}

func (r *mongoArenaLockRepository) Release(ctx context.Context, arenaID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": arenaID})
	return err
}
