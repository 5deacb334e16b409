package model

import (
	"testing"
	"time"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}

	if !StatusCancelled.Terminal() {
		t.Error("cancelled must be terminal")
	}
	if StatusPending.Terminal() || StatusConfirmed.Terminal() {
		t.Error("pending and confirmed must not be terminal")
	}
}

func TestBlocks(t *testing.T) {
	if !(&Booking{Status: StatusConfirmed}).Blocks() {
		t.Error("confirmed bookings must block")
	}
	if (&Booking{Status: StatusPending}).Blocks() {
		t.Error("pending holds must never block")
	}
	if (&Booking{Status: StatusCancelled}).Blocks() {
		t.Error("cancelled bookings must never block")
	}
}

func TestRoleCanCreate(t *testing.T) {
	tests := []struct {
		role    Role
		typ     BookingType
		allowed bool
	}{
		{RoleGuest, TypePublic, true},
		{RoleGuest, TypeMaintenance, false},
		{RoleGuest, TypeLivery, false},
		{RoleLivery, TypeLivery, true},
		{RoleLivery, TypeLesson, true},
		{RoleLivery, TypeMaintenance, false},
		{RoleLivery, TypeEvent, false},
		{RoleStaff, TypeMaintenance, true},
		{RoleStaff, TypeEvent, true},
		{RoleAdmin, TypeMaintenance, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"_"+string(tt.typ), func(t *testing.T) {
			if got := tt.role.CanCreate(tt.typ); got != tt.allowed {
				t.Errorf("CanCreate(%s, %s) = %v, want %v", tt.role, tt.typ, got, tt.allowed)
			}
		})
	}
}

func TestRoleDefaultStatus(t *testing.T) {
	if RoleGuest.DefaultStatus() != StatusPending {
		t.Error("guest bookings must start pending")
	}
	if RoleLivery.DefaultStatus() != StatusPending {
		t.Error("livery bookings must start pending")
	}
	if RoleStaff.DefaultStatus() != StatusConfirmed {
		t.Error("staff bookings land confirmed")
	}
	if RoleAdmin.DefaultStatus() != StatusConfirmed {
		t.Error("admin bookings land confirmed")
	}
}

func TestOwnedBy(t *testing.T) {
	owned := &Booking{OwnerID: "64f000000000000000000001"}
	if !owned.OwnedBy(Actor{ID: "64f000000000000000000001", Role: RoleLivery}) {
		t.Error("owner must match on account ID")
	}
	if owned.OwnedBy(Actor{ID: "64f000000000000000000002", Role: RoleLivery}) {
		t.Error("different account must not match")
	}

	guest := &Booking{Guest: &GuestContact{Name: "Kim Waters", Email: "kim@example.com"}}
	if !guest.OwnedBy(Actor{Role: RoleGuest, GuestEmail: "kim@example.com"}) {
		t.Error("guest booking must match on guest email")
	}
	if guest.OwnedBy(Actor{Role: RoleGuest, GuestEmail: "other@example.com"}) {
		t.Error("different guest email must not match")
	}
	if guest.OwnedBy(Actor{Role: RoleGuest}) {
		t.Error("empty guest email must never match")
	}
}

func TestBookingRange_UTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	b := &Booking{
		StartTime: time.Date(2026, 5, 1, 10, 0, 0, 0, loc),
		EndTime:   time.Date(2026, 5, 1, 11, 0, 0, 0, loc),
	}

	r := b.Range()
	if r.Start.Location() != time.UTC {
		t.Error("range must be UTC-normalized")
	}
	if r.Duration() != time.Hour {
		t.Errorf("expected 1h duration, got %s", r.Duration())
	}
}
