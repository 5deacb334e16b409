package model

import (
	"time"

	"paddock/pkg/timerange"
)

// CoachSlot is a read-only projection of the external coaching rota. Slots
// are rendered as background hints on the calendar and never block arena
// bookings.
type CoachSlot struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	CoachID   string    `json:"coach_id" bson:"coach_id" validate:"required"`
	CoachName string    `json:"coach_name" bson:"coach_name" validate:"required,min=2,max=100"`
	ArenaID   string    `json:"arena_id" bson:"arena_id" validate:"required,mongodb"`
	StartTime time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	IngestAt  time.Time `json:"ingested_at" bson:"ingested_at" validate:"omitempty"`
}

func (c *CoachSlot) Range() timerange.TimeRange {
	return timerange.TimeRange{Start: c.StartTime.UTC(), End: c.EndTime.UTC()}
}
