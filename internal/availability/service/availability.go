package service

import (
	"context"
	"time"

	availabilitycache "paddock/internal/availability/cache"
	"paddock/pkg/config"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/model"
	"paddock/pkg/timerange"
)

// BlockingEvent is a booking rendered on the calendar. Pending holds render
// translucent; the color keys off the booking type.
type BlockingEvent struct {
	BookingID   string              `json:"booking_id"`
	ArenaID     string              `json:"arena_id"`
	Start       time.Time           `json:"start_time"`
	End         time.Time           `json:"end_time"`
	Type        model.BookingType   `json:"type"`
	Status      model.BookingStatus `json:"status"`
	Color       string              `json:"color"`
	Translucent bool                `json:"translucent"`
	Shareable   bool                `json:"shareable"`
}

// BackgroundHint is a coach slot rendered behind the bookings. Hints are
// informational only and never enter conflict logic.
type BackgroundHint struct {
	CoachID   string    `json:"coach_id"`
	CoachName string    `json:"coach_name"`
	ArenaID   string    `json:"arena_id"`
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
}

// View is the calendar payload for one query window. Timestamps stay UTC on
// the wire; Timezone names the venue zone the client should render in.
type View struct {
	ArenaID  string           `json:"arena_id,omitempty"`
	From     time.Time        `json:"from"`
	To       time.Time        `json:"to"`
	Timezone string           `json:"timezone"`
	Blocking []BlockingEvent  `json:"blocking"`
	Hints    []BackgroundHint `json:"hints"`
}

// BookingReader is the slice of the booking repository the view builder needs.
type BookingReader interface {
	FindIntersecting(ctx context.Context, arenaID string, rng timerange.TimeRange) ([]*model.Booking, error)
}

// CoachSlotReader is the slice of the coach slot repository the view builder needs.
type CoachSlotReader interface {
	FindInRange(ctx context.Context, arenaID string, rng timerange.TimeRange) ([]*model.CoachSlot, error)
}

type AvailabilityService interface {
	Build(ctx context.Context, arenaID string, from, to time.Time) (View, error)
}

type availabilityService struct {
	bookings BookingReader
	slots    CoachSlotReader
	cache    *availabilitycache.ViewCache
	cfg      *config.Config
}

func NewAvailabilityService(
	bookings BookingReader,
	slots CoachSlotReader,
	cache *availabilitycache.ViewCache,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		bookings: bookings,
		slots:    slots,
		cache:    cache,
		cfg:      cfg,
	}
}

// Build returns the availability view for the window [from, to). Empty
// arenaID means all arenas. Served from the Redis cache when one is wired.
func (s *availabilityService) Build(ctx context.Context, arenaID string, from, to time.Time) (View, error) {
	rng, err := timerange.New(from, to)
	if err != nil {
		return View{}, apperrors.InvalidInput("'to' must be after 'from'")
	}

	maxRange := time.Duration(s.cfg.MaxViewRangeDays) * 24 * time.Hour
	if rng.Duration() > maxRange {
		return View{}, apperrors.InvalidInput("Requested range is too large")
	}

	if s.cache == nil {
		return s.build(ctx, arenaID, rng)
	}

	view, err := availabilitycache.GetOrBuild(ctx, s.cache, arenaID, rng.Start, rng.End,
		func(ctx context.Context) (View, error) {
			return s.build(ctx, arenaID, rng)
		})
	if err != nil {
		return View{}, err
	}
	return view, nil
}

func (s *availabilityService) build(ctx context.Context, arenaID string, rng timerange.TimeRange) (View, error) {
	view := View{
		ArenaID:  arenaID,
		From:     rng.Start,
		To:       rng.End,
		Timezone: s.cfg.VenueTimezone,
		Blocking: []BlockingEvent{},
		Hints:    []BackgroundHint{},
	}

	bookings, err := s.bookings.FindIntersecting(ctx, arenaID, rng)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for view", "arena_id", arenaID, "error", err)
		return View{}, apperrors.Internal("Failed to build availability view", err)
	}

	for _, b := range bookings {
		clamped, ok := b.Range().Clamp(rng)
		if !ok {
			continue
		}
		view.Blocking = append(view.Blocking, BlockingEvent{
			BookingID:   b.ID,
			ArenaID:     b.ArenaID,
			Start:       clamped.Start,
			End:         clamped.End,
			Type:        b.Type,
			Status:      b.Status,
			Color:       b.Type.ViewColor(),
			Translucent: b.Status == model.StatusPending,
			Shareable:   b.OpenToShare,
		})
	}

	slots, err := s.slots.FindInRange(ctx, arenaID, rng)
	if err != nil {
		s.cfg.Log.Error("Failed to load coach slots for view", "arena_id", arenaID, "error", err)
		return View{}, apperrors.Internal("Failed to build availability view", err)
	}

	for _, slot := range slots {
		clamped, ok := slot.Range().Clamp(rng)
		if !ok {
			continue
		}
		view.Hints = append(view.Hints, BackgroundHint{
			CoachID:   slot.CoachID,
			CoachName: slot.CoachName,
			ArenaID:   slot.ArenaID,
			Start:     clamped.Start,
			End:       clamped.End,
		})
	}

	return view, nil
}
