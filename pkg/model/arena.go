package model

import "time"

// Arena is a physical bookable riding space. Arenas referenced by historical
// bookings are never deleted, only deactivated.
type Arena struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Surface   string    `json:"surface,omitempty" bson:"surface,omitempty" validate:"omitempty,oneof=sand fibre grass rubber indoor"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ArenaUpdate struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Surface *string `json:"surface,omitempty" validate:"omitempty,oneof=sand fibre grass rubber indoor"`
	Active  *bool   `json:"active,omitempty"`
}
