package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"paddock/pkg/config"
	"paddock/pkg/model"
	"paddock/pkg/timerange"
)

const (
	CollectionName = "Coach_slots"
)

type mongoCoachSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type CoachSlotRepository interface {
	// ReplaceForCoachDate swaps the coach's slots for one calendar day. The
	// external rota publishes whole days, so ingest deletes and reinserts
	// rather than diffing.
	ReplaceForCoachDate(ctx context.Context, coachID string, day time.Time, slots []*model.CoachSlot) error
	FindInRange(ctx context.Context, arenaID string, rng timerange.TimeRange) ([]*model.CoachSlot, error)
}

func NewMongoCoachSlotRepository(cfg *config.Config) CoachSlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCoachSlotRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoCoachSlotRepository) ReplaceForCoachDate(ctx context.Context, coachID string, day time.Time, slots []*model.CoachSlot) error {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	filter := bson.M{
		"coach_id":   coachID,
		"start_time": bson.M{"$gte": dayStart, "$lt": dayEnd},
	}

	if _, err := r.collection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear coach slots: %w", err)
	}

	if len(slots) == 0 {
		return nil
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(slots))
	for _, slot := range slots {
		slot.IngestAt = now
		docs = append(docs, slot)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert coach slots: %w", err)
	}

	return nil
}

func (r *mongoCoachSlotRepository) FindInRange(ctx context.Context, arenaID string, rng timerange.TimeRange) ([]*model.CoachSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"start_time": bson.M{"$lt": rng.End},
		"end_time":   bson.M{"$gt": rng.Start},
	}
	if arenaID != "" {
		filter["arena_id"] = arenaID
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find coach slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.CoachSlot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode coach slots: %w", err)
	}

	return slots, nil
}
