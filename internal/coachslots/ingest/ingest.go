package ingest

import (
	"context"
	"fmt"
	"time"

	coachsloterrors "paddock/internal/coachslots/errors"
	"paddock/internal/coachslots/repository"
	"paddock/pkg/kafka"
	"paddock/pkg/logger"
	"paddock/pkg/model"
)

// FeedMessage is one day of a coach's rota as published by the external
// scheduling system. The feed is authoritative: each message replaces the
// coach's slots for the named day.
type FeedMessage struct {
	CoachID   string     `json:"coach_id"`
	CoachName string     `json:"coach_name"`
	Date      string     `json:"date"` // YYYY-MM-DD, venue-local date key
	Slots     []FeedSlot `json:"slots"`
}

type FeedSlot struct {
	ArenaID   string    `json:"arena_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewFeedHandler returns the Kafka message handler for the coach feed. Errors
// bubble up to the consumer, which retries and eventually parks the message
// on the DLQ.
func NewFeedHandler(repo repository.CoachSlotRepository, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var feed FeedMessage
		if err := msg.DecodeValue(&feed); err != nil {
			return fmt.Errorf("malformed coach feed message: %w", err)
		}

		if feed.CoachID == "" {
			return coachsloterrors.ErrMissingCoach
		}

		day, err := time.Parse("2006-01-02", feed.Date)
		if err != nil {
			return fmt.Errorf("malformed coach feed date %q: %w", feed.Date, err)
		}

		slots := make([]*model.CoachSlot, 0, len(feed.Slots))
		for _, s := range feed.Slots {
			if !s.EndTime.After(s.StartTime) {
				return fmt.Errorf("%w: [%s, %s)", coachsloterrors.ErrInvalidSlot,
					s.StartTime.Format(time.RFC3339), s.EndTime.Format(time.RFC3339))
			}
			slots = append(slots, &model.CoachSlot{
				CoachID:   feed.CoachID,
				CoachName: feed.CoachName,
				ArenaID:   s.ArenaID,
				StartTime: s.StartTime.UTC(),
				EndTime:   s.EndTime.UTC(),
			})
		}

		if err := repo.ReplaceForCoachDate(ctx, feed.CoachID, day, slots); err != nil {
			return err
		}

		log.Info("Coach slots ingested",
			"coach_id", feed.CoachID,
			"date", feed.Date,
			"slots", len(slots),
			"event_id", msg.GetEventID(),
		)
		return nil
	}
}
