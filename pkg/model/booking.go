package model

import (
	"time"

	"paddock/pkg/timerange"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

type BookingType string

const (
	TypePublic         BookingType = "public"
	TypeLivery         BookingType = "livery"
	TypeEvent          BookingType = "event"
	TypeMaintenance    BookingType = "maintenance"
	TypeTrainingClinic BookingType = "training_clinic"
	TypeLesson         BookingType = "lesson"
)

// GuestContact identifies a booking made through the public guest flow,
// which has no registered owner account behind it.
type GuestContact struct {
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Phone string `json:"phone" bson:"phone" validate:"omitempty,e164"`
}

// Booking reserves one arena for one half-open time interval. Confirmed
// bookings on the same arena never overlap; pending bookings are holds and
// may overlap anything. A booking is never hard-deleted once confirmed,
// cancellation is a status change.
type Booking struct {
	ID          string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ArenaID     string        `json:"arena_id" bson:"arena_id" validate:"required,mongodb"`
	StartTime   time.Time     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     time.Time     `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Type        BookingType   `json:"type" bson:"type" validate:"required,oneof=public livery event maintenance training_clinic lesson"`
	Status      BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	OwnerID     string        `json:"owner_id,omitempty" bson:"owner_id,omitempty" validate:"omitempty,mongodb"`
	Guest       *GuestContact `json:"guest,omitempty" bson:"guest,omitempty"`
	HorseID     string        `json:"horse_id,omitempty" bson:"horse_id,omitempty" validate:"omitempty,mongodb"`
	Title       string        `json:"title,omitempty" bson:"title,omitempty" validate:"omitempty,max=120"`
	Notes       string        `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	OpenToShare bool          `json:"open_to_share" bson:"open_to_share"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingUpdate carries the mutable fields for a PATCH. Time changes re-run
// the conflict check on confirmed bookings.
type BookingUpdate struct {
	StartTime   *time.Time `json:"start_time,omitempty" validate:"omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty" validate:"omitempty"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=120"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
	HorseID     *string    `json:"horse_id,omitempty" validate:"omitempty,mongodb"`
	OpenToShare *bool      `json:"open_to_share,omitempty"`
}

// Range returns the booking interval as a half-open UTC range.
func (b *Booking) Range() timerange.TimeRange {
	return timerange.TimeRange{Start: b.StartTime.UTC(), End: b.EndTime.UTC()}
}

// Blocks reports whether this booking participates in conflict checks.
// Only confirmed bookings block; pending holds and cancelled bookings never do.
func (b *Booking) Blocks() bool {
	return b.Status == StatusConfirmed
}

// IsGuest reports whether the booking came through the public guest flow.
func (b *Booking) IsGuest() bool {
	return b.OwnerID == "" && b.Guest != nil
}

// OwnedBy reports whether the actor is the booking's owner. Guest bookings
// match on the guest email since guests have no account ID.
func (b *Booking) OwnedBy(actor Actor) bool {
	if b.OwnerID != "" {
		return actor.ID != "" && actor.ID == b.OwnerID
	}
	if b.Guest != nil {
		return actor.GuestEmail != "" && actor.GuestEmail == b.Guest.Email
	}
	return false
}

// CanTransitionTo encodes the booking lifecycle: pending may confirm or
// cancel, confirmed may only cancel, cancelled is terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// Terminal reports whether no transitions leave this status.
func (s BookingStatus) Terminal() bool {
	return s == StatusCancelled
}

// ViewColor returns the calendar color key for a booking type. The calendar
// widget maps these to its palette.
func (t BookingType) ViewColor() string {
	switch t {
	case TypePublic:
		return "sky"
	case TypeLivery:
		return "green"
	case TypeEvent:
		return "purple"
	case TypeMaintenance:
		return "grey"
	case TypeTrainingClinic:
		return "orange"
	case TypeLesson:
		return "blue"
	default:
		return "slate"
	}
}
