package validator

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"paddock/pkg/logger"
	"paddock/pkg/model"
)

func testValidator(t *testing.T) *BookingValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingValidator(8*time.Hour, log)
}

func validBooking() *model.Booking {
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	return &model.Booking{
		ArenaID:   primitive.NewObjectID().Hex(),
		OwnerID:   primitive.NewObjectID().Hex(),
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Type:      model.TypeLesson,
		Status:    model.StatusConfirmed,
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	v := testValidator(t)

	if err := v.Validate(validBooking()); err != nil {
		t.Fatalf("expected valid booking, got %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(b *model.Booking)
		wantHint string
	}{
		{
			"missing arena",
			func(b *model.Booking) { b.ArenaID = "" },
			"ArenaID is required",
		},
		{
			"malformed arena id",
			func(b *model.Booking) { b.ArenaID = "not-an-objectid" },
			"valid MongoDB ObjectID",
		},
		{
			"end equals start",
			func(b *model.Booking) { b.EndTime = b.StartTime },
			"after",
		},
		{
			"end before start",
			func(b *model.Booking) { b.EndTime = b.StartTime.Add(-time.Hour) },
			"after",
		},
		{
			"over max duration",
			func(b *model.Booking) { b.EndTime = b.StartTime.Add(9 * time.Hour) },
			"longer than",
		},
		{
			"unknown type",
			func(b *model.Booking) { b.Type = "gymkhana" },
			"must be one of",
		},
		{
			"unknown status",
			func(b *model.Booking) { b.Status = "tentative" },
			"must be one of",
		},
		{
			"no owner and no guest contact",
			func(b *model.Booking) { b.OwnerID = ""; b.Guest = nil },
			"guest contact is required",
		},
		{
			"guest with bad email",
			func(b *model.Booking) {
				b.OwnerID = ""
				b.Guest = &model.GuestContact{Name: "Jo Hargreaves", Email: "not-an-email"}
			},
			"valid email",
		},
		{
			"guest with bad phone",
			func(b *model.Booking) {
				b.OwnerID = ""
				b.Guest = &model.GuestContact{Name: "Jo Hargreaves", Email: "jo@example.com", Phone: "01234 567890"}
			},
			"E.164",
		},
		{
			"title too long",
			func(b *model.Booking) { b.Title = strings.Repeat("x", 121) },
			"at most",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := testValidator(t)
			b := validBooking()
			tt.mutate(b)

			err := v.Validate(b)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantHint) {
				t.Errorf("expected error mentioning %q, got %q", tt.wantHint, err.Error())
			}
		})
	}
}

func TestValidate_GuestBookingWithContactIsValid(t *testing.T) {
	v := testValidator(t)
	b := validBooking()
	b.OwnerID = ""
	b.Status = model.StatusPending
	b.Type = model.TypePublic
	b.Guest = &model.GuestContact{
		Name:  "Jo Hargreaves",
		Email: "jo@example.com",
		Phone: "+447700900123",
	}

	if err := v.Validate(b); err != nil {
		t.Fatalf("expected valid guest booking, got %v", err)
	}
}

func TestValidateUpdate(t *testing.T) {
	v := testValidator(t)
	start := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)

	t.Run("valid time move", func(t *testing.T) {
		end := start.Add(time.Hour)
		if err := v.ValidateUpdate(&model.BookingUpdate{StartTime: &start, EndTime: &end}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("inverted times rejected", func(t *testing.T) {
		end := start.Add(-time.Hour)
		err := v.ValidateUpdate(&model.BookingUpdate{StartTime: &start, EndTime: &end})
		if err == nil {
			t.Fatal("expected validation error, got nil")
		}
	})

	t.Run("bad horse id rejected", func(t *testing.T) {
		horseID := "nope"
		err := v.ValidateUpdate(&model.BookingUpdate{HorseID: &horseID})
		if err == nil {
			t.Fatal("expected validation error, got nil")
		}
	})
}
