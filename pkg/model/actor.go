package model

type Role string

const (
	RoleGuest  Role = "guest"
	RoleLivery Role = "livery"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// Actor is whoever is performing a booking operation. Guests carry no account
// ID; their bookings are tied to the guest contact email instead.
type Actor struct {
	ID         string `json:"id,omitempty" validate:"omitempty,mongodb"`
	Role       Role   `json:"role" validate:"required,oneof=guest livery staff admin"`
	GuestEmail string `json:"guest_email,omitempty" validate:"omitempty,email"`
}

// Staff reports whether the role carries administrative capability:
// confirming bookings, cancelling anyone's booking, managing arenas.
func (r Role) Staff() bool {
	return r == RoleStaff || r == RoleAdmin
}

var creatableTypes = map[Role][]BookingType{
	RoleGuest:  {TypePublic},
	RoleLivery: {TypePublic, TypeLivery, TypeLesson, TypeTrainingClinic},
	RoleStaff:  {TypePublic, TypeLivery, TypeEvent, TypeMaintenance, TypeTrainingClinic, TypeLesson},
	RoleAdmin:  {TypePublic, TypeLivery, TypeEvent, TypeMaintenance, TypeTrainingClinic, TypeLesson},
}

// CanCreate reports whether the role may create a booking of the given type.
// Only staff may create maintenance blocks and yard events; guests are
// limited to the public flow.
func (r Role) CanCreate(t BookingType) bool {
	for _, allowed := range creatableTypes[r] {
		if allowed == t {
			return true
		}
	}
	return false
}

// DefaultStatus is the status a freshly created booking gets for this role.
// Staff bookings land confirmed (conflict-checked at creation); everyone else
// creates a pending hold awaiting staff confirmation.
func (r Role) DefaultStatus() BookingStatus {
	if r.Staff() {
		return StatusConfirmed
	}
	return StatusPending
}
