package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"paddock/pkg/config"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/logger"
	"paddock/pkg/model"
	"paddock/pkg/timerange"
)

type mockBookingReader struct {
	bookings []*model.Booking
	err      error
}

func (m *mockBookingReader) FindIntersecting(ctx context.Context, arenaID string, rng timerange.TimeRange) ([]*model.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.Booking
	for _, b := range m.bookings {
		if arenaID != "" && b.ArenaID != arenaID {
			continue
		}
		if b.Status == model.StatusCancelled {
			continue
		}
		if b.Range().Overlaps(rng) {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockCoachSlotReader struct {
	slots []*model.CoachSlot
	err   error
}

func (m *mockCoachSlotReader) FindInRange(ctx context.Context, arenaID string, rng timerange.TimeRange) ([]*model.CoachSlot, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.CoachSlot
	for _, s := range m.slots {
		if arenaID != "" && s.ArenaID != arenaID {
			continue
		}
		if s.Range().Overlaps(rng) {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, bookings *mockBookingReader, slots *mockCoachSlotReader) AvailabilityService {
	t.Helper()
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:              log,
		VenueTimezone:    "Europe/London",
		MaxViewRangeDays: 31,
	}
	return NewAvailabilityService(bookings, slots, nil, cfg)
}

func TestBuild_WindowFiltering(t *testing.T) {
	arenaID := primitive.NewObjectID().Hex()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	bookings := &mockBookingReader{bookings: []*model.Booking{
		{
			ID: "inside", ArenaID: arenaID,
			StartTime: day.Add(10 * time.Hour), EndTime: day.Add(11 * time.Hour),
			Type: model.TypeLesson, Status: model.StatusConfirmed,
		},
		{
			ID: "before", ArenaID: arenaID,
			StartTime: day.Add(-2 * time.Hour), EndTime: day.Add(-1 * time.Hour),
			Type: model.TypeLesson, Status: model.StatusConfirmed,
		},
		{
			ID: "touching-start", ArenaID: arenaID,
			StartTime: day.Add(-1 * time.Hour), EndTime: day,
			Type: model.TypeLesson, Status: model.StatusConfirmed,
		},
	}}

	svc := newTestService(t, bookings, &mockCoachSlotReader{})

	view, err := svc.Build(context.Background(), arenaID, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Blocking) != 1 {
		t.Fatalf("expected 1 blocking event, got %d", len(view.Blocking))
	}
	if view.Blocking[0].BookingID != "inside" {
		t.Errorf("expected the inside booking, got %q", view.Blocking[0].BookingID)
	}
	if view.Timezone != "Europe/London" {
		t.Errorf("expected venue timezone, got %q", view.Timezone)
	}
}

func TestBuild_ClampsEventsAtWindowEdges(t *testing.T) {
	arenaID := primitive.NewObjectID().Hex()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	windowEnd := day.Add(24 * time.Hour)

	bookings := &mockBookingReader{bookings: []*model.Booking{
		{
			ID: "spans-start", ArenaID: arenaID,
			StartTime: day.Add(-2 * time.Hour), EndTime: day.Add(2 * time.Hour),
			Type: model.TypeEvent, Status: model.StatusConfirmed,
		},
		{
			ID: "spans-end", ArenaID: arenaID,
			StartTime: windowEnd.Add(-time.Hour), EndTime: windowEnd.Add(3 * time.Hour),
			Type: model.TypeEvent, Status: model.StatusConfirmed,
		},
	}}

	svc := newTestService(t, bookings, &mockCoachSlotReader{})

	view, err := svc.Build(context.Background(), arenaID, day, windowEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Blocking) != 2 {
		t.Fatalf("expected 2 blocking events, got %d", len(view.Blocking))
	}

	for _, ev := range view.Blocking {
		if ev.Start.Before(day) {
			t.Errorf("event %s starts before the window: %s", ev.BookingID, ev.Start)
		}
		if ev.End.After(windowEnd) {
			t.Errorf("event %s ends after the window: %s", ev.BookingID, ev.End)
		}
	}
}

func TestBuild_EventRendering(t *testing.T) {
	arenaID := primitive.NewObjectID().Hex()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	bookings := &mockBookingReader{bookings: []*model.Booking{
		{
			ID: "hold", ArenaID: arenaID,
			StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour),
			Type: model.TypePublic, Status: model.StatusPending,
		},
		{
			ID: "shared", ArenaID: arenaID,
			StartTime: day.Add(11 * time.Hour), EndTime: day.Add(12 * time.Hour),
			Type: model.TypeLivery, Status: model.StatusConfirmed, OpenToShare: true,
		},
		{
			ID: "block", ArenaID: arenaID,
			StartTime: day.Add(14 * time.Hour), EndTime: day.Add(16 * time.Hour),
			Type: model.TypeMaintenance, Status: model.StatusConfirmed,
		},
	}}

	svc := newTestService(t, bookings, &mockCoachSlotReader{})

	view, err := svc.Build(context.Background(), arenaID, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID := map[string]BlockingEvent{}
	for _, ev := range view.Blocking {
		byID[ev.BookingID] = ev
	}

	if ev := byID["hold"]; !ev.Translucent || ev.Color != "sky" {
		t.Errorf("pending public hold should render translucent sky, got %+v", ev)
	}
	if ev := byID["shared"]; ev.Translucent || !ev.Shareable || ev.Color != "green" {
		t.Errorf("shared livery booking should render solid green shareable, got %+v", ev)
	}
	if ev := byID["block"]; ev.Translucent || ev.Color != "grey" {
		t.Errorf("maintenance block should render solid grey, got %+v", ev)
	}
}

func TestBuild_CoachSlotsAreHintsOnly(t *testing.T) {
	arenaID := primitive.NewObjectID().Hex()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	slots := &mockCoachSlotReader{slots: []*model.CoachSlot{
		{
			CoachID: "coach-1", CoachName: "Pat Murphy", ArenaID: arenaID,
			StartTime: day.Add(8 * time.Hour), EndTime: day.Add(12 * time.Hour),
		},
		{
			CoachID: "coach-2", CoachName: "Alex Reid", ArenaID: primitive.NewObjectID().Hex(),
			StartTime: day.Add(8 * time.Hour), EndTime: day.Add(12 * time.Hour),
		},
	}}

	svc := newTestService(t, &mockBookingReader{}, slots)

	view, err := svc.Build(context.Background(), arenaID, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Blocking) != 0 {
		t.Errorf("coach slots must never appear as blocking events, got %d", len(view.Blocking))
	}
	if len(view.Hints) != 1 {
		t.Fatalf("expected 1 hint for the requested arena, got %d", len(view.Hints))
	}
	if view.Hints[0].CoachName != "Pat Murphy" {
		t.Errorf("unexpected hint: %+v", view.Hints[0])
	}
}

func TestBuild_AllArenasMode(t *testing.T) {
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	arenaA := primitive.NewObjectID().Hex()
	arenaB := primitive.NewObjectID().Hex()

	bookings := &mockBookingReader{bookings: []*model.Booking{
		{ID: "a", ArenaID: arenaA, StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour), Type: model.TypeLesson, Status: model.StatusConfirmed},
		{ID: "b", ArenaID: arenaB, StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour), Type: model.TypeLesson, Status: model.StatusConfirmed},
	}}

	svc := newTestService(t, bookings, &mockCoachSlotReader{})

	view, err := svc.Build(context.Background(), "", day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Blocking) != 2 {
		t.Errorf("expected bookings from all arenas, got %d", len(view.Blocking))
	}
	if view.ArenaID != "" {
		t.Errorf("expected empty arena scope, got %q", view.ArenaID)
	}
}

func TestBuild_RangeValidation(t *testing.T) {
	svc := newTestService(t, &mockBookingReader{}, &mockCoachSlotReader{})
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		from time.Time
		to   time.Time
	}{
		{"inverted", day.Add(24 * time.Hour), day},
		{"zero width", day, day},
		{"too large", day, day.Add(32 * 24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Build(context.Background(), "", tt.from, tt.to)
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvalidInput {
				t.Fatalf("expected invalid input error, got %v", err)
			}
		})
	}
}

func TestBuild_RepositoryErrorSurfacesAsInternal(t *testing.T) {
	svc := newTestService(t, &mockBookingReader{err: errors.New("mongo down")}, &mockCoachSlotReader{})
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	_, err := svc.Build(context.Background(), "", day, day.Add(time.Hour))
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
