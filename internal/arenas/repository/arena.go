package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	arenaserrors "paddock/internal/arenas/errors"
	"paddock/pkg/config"
	mongotx "paddock/pkg/db/mongo"
	"paddock/pkg/model"
)

const (
	CollectionName = "Arenas"
)

type mongoArenaRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ArenaRepository interface {
	Create(ctx context.Context, arena *model.Arena) error
	FindByID(ctx context.Context, id string) (*model.Arena, error)
	FindByName(ctx context.Context, name string) (*model.Arena, error)
	FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Arena, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
	Update(ctx context.Context, id string, arena *model.Arena) (*mongo.UpdateResult, error)
	SetActive(ctx context.Context, id string, active bool) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoArenaRepository(cfg *config.Config) ArenaRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoArenaRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoArenaRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoArenaRepository) Create(ctx context.Context, arena *model.Arena) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	arena.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, arena)
	if err != nil {
		return fmt.Errorf("failed to create arena: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		arena.ID = oid.Hex()
	}

	return nil
}

func (r *mongoArenaRepository) FindByID(ctx context.Context, id string) (*model.Arena, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", arenaserrors.ErrInvalidID, id)
	}

	var arena model.Arena
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&arena)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", arenaserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find arena: %w", err)
	}
	return &arena, nil
}

func (r *mongoArenaRepository) FindByName(ctx context.Context, name string) (*model.Arena, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var arena model.Arena
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&arena)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", arenaserrors.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to find arena by name: %w", err)
	}
	return &arena, nil
}

func (r *mongoArenaRepository) FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Arena, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query arenas: %w", err)
	}
	defer cursor.Close(ctx)

	var arenas []*model.Arena
	if err = cursor.All(ctx, &arenas); err != nil {
		return nil, fmt.Errorf("failed to decode arenas: %w", err)
	}

	return arenas, nil
}

func (r *mongoArenaRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count arenas: %w", err)
	}
	return count, nil
}

func (r *mongoArenaRepository) Update(ctx context.Context, id string, arena *model.Arena) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", arenaserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":    arena.Name,
			"surface": arena.Surface,
			"active":  arena.Active,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update arena: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", arenaserrors.ErrNotFound, id)
	}

	return result, nil
}

func (r *mongoArenaRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", arenaserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"active": active}},
	)
	if err != nil {
		return fmt.Errorf("failed to set arena active flag: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", arenaserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoArenaRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
