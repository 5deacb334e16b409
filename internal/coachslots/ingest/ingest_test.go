package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	coachsloterrors "paddock/internal/coachslots/errors"
	"paddock/pkg/kafka"
	"paddock/pkg/logger"
	"paddock/pkg/model"
	"paddock/pkg/timerange"
)

type mockCoachSlotRepository struct {
	replaceFunc func(ctx context.Context, coachID string, day time.Time, slots []*model.CoachSlot) error
}

func (m *mockCoachSlotRepository) ReplaceForCoachDate(ctx context.Context, coachID string, day time.Time, slots []*model.CoachSlot) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, coachID, day, slots)
	}
	return nil
}

func (m *mockCoachSlotRepository) FindInRange(ctx context.Context, arenaID string, rng timerange.TimeRange) ([]*model.CoachSlot, error) {
	return []*model.CoachSlot{}, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func feedMessage(feed FeedMessage) kafka.Message {
	return kafka.NewMessage().
		WithKey(feed.CoachID).
		WithValue(feed).
		WithEventType("coach.rota.updated").
		Build()
}

func TestFeedHandler_ReplacesCoachDay(t *testing.T) {
	arenaID := primitive.NewObjectID().Hex()
	start := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)

	var gotCoachID string
	var gotDay time.Time
	var gotSlots []*model.CoachSlot
	repo := &mockCoachSlotRepository{
		replaceFunc: func(ctx context.Context, coachID string, day time.Time, slots []*model.CoachSlot) error {
			gotCoachID = coachID
			gotDay = day
			gotSlots = slots
			return nil
		},
	}

	handler := NewFeedHandler(repo, testLogger(t))
	msg := feedMessage(FeedMessage{
		CoachID:   "coach-17",
		CoachName: "Pat Murphy",
		Date:      "2026-09-14",
		Slots: []FeedSlot{
			{ArenaID: arenaID, StartTime: start, EndTime: start.Add(2 * time.Hour)},
			{ArenaID: arenaID, StartTime: start.Add(3 * time.Hour), EndTime: start.Add(5 * time.Hour)},
		},
	})

	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCoachID != "coach-17" {
		t.Errorf("expected coach-17, got %q", gotCoachID)
	}
	if gotDay.Format("2006-01-02") != "2026-09-14" {
		t.Errorf("expected day 2026-09-14, got %s", gotDay)
	}
	if len(gotSlots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(gotSlots))
	}
	if gotSlots[0].CoachName != "Pat Murphy" {
		t.Errorf("expected coach name carried onto slots, got %q", gotSlots[0].CoachName)
	}
}

func TestFeedHandler_EmptyDayClearsSlots(t *testing.T) {
	var gotSlots []*model.CoachSlot
	called := false
	repo := &mockCoachSlotRepository{
		replaceFunc: func(ctx context.Context, coachID string, day time.Time, slots []*model.CoachSlot) error {
			called = true
			gotSlots = slots
			return nil
		},
	}

	handler := NewFeedHandler(repo, testLogger(t))
	msg := feedMessage(FeedMessage{CoachID: "coach-17", CoachName: "Pat Murphy", Date: "2026-09-14"})

	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected replace to be called for an empty day")
	}
	if len(gotSlots) != 0 {
		t.Errorf("expected no slots, got %d", len(gotSlots))
	}
}

func TestFeedHandler_Rejections(t *testing.T) {
	arenaID := primitive.NewObjectID().Hex()
	start := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		msg     kafka.Message
		wantErr error
	}{
		{
			"malformed payload",
			kafka.Message{Value: []byte("{not json")},
			nil,
		},
		{
			"missing coach id",
			feedMessage(FeedMessage{Date: "2026-09-14"}),
			coachsloterrors.ErrMissingCoach,
		},
		{
			"bad date key",
			feedMessage(FeedMessage{CoachID: "coach-17", Date: "14/09/2026"}),
			nil,
		},
		{
			"inverted slot window",
			feedMessage(FeedMessage{
				CoachID: "coach-17",
				Date:    "2026-09-14",
				Slots:   []FeedSlot{{ArenaID: arenaID, StartTime: start.Add(time.Hour), EndTime: start}},
			}),
			coachsloterrors.ErrInvalidSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockCoachSlotRepository{
				replaceFunc: func(ctx context.Context, coachID string, day time.Time, slots []*model.CoachSlot) error {
					t.Error("replace must not be called for a rejected message")
					return nil
				},
			}
			handler := NewFeedHandler(repo, testLogger(t))

			err := handler(context.Background(), tt.msg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFeedHandler_RepositoryErrorBubblesUp(t *testing.T) {
	repoErr := errors.New("mongo down")
	repo := &mockCoachSlotRepository{
		replaceFunc: func(ctx context.Context, coachID string, day time.Time, slots []*model.CoachSlot) error {
			return repoErr
		},
	}
	handler := NewFeedHandler(repo, testLogger(t))

	msg := feedMessage(FeedMessage{CoachID: "coach-17", Date: "2026-09-14"})
	if err := handler(context.Background(), msg); !errors.Is(err, repoErr) {
		t.Errorf("expected repository error to bubble up, got %v", err)
	}
}
