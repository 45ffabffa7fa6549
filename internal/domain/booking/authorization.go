package booking

import "github.com/local-guide/service-booking/internal/domain"

// IsAllowed is the role-based authorization matrix for status transitions.
// It is evaluated before the transition graph check; both must pass.
//
//   - The owning tourist may only withdraw their own PENDING booking.
//   - The guide owning the listing may drive every transition on it.
//   - Admins may drive every transition on any booking.
//
// Any other actor is denied.
func IsAllowed(actor domain.Actor, b *Booking, target Status) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleGuide:
		return actor.ID == b.GuideID()
	case domain.RoleTourist:
		return actor.ID == b.TouristID() &&
			b.Status() == StatusPending &&
			target == StatusCancelled
	default:
		return false
	}
}

// CanHardDelete reports whether the actor may remove a booking outright,
// bypassing the state machine. Admin only.
func CanHardDelete(actor domain.Actor) bool {
	return actor.Role == domain.RoleAdmin
}

// CanView reports whether the actor may read this booking.
func CanView(actor domain.Actor, b *Booking) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleGuide:
		return actor.ID == b.GuideID()
	case domain.RoleTourist:
		return actor.ID == b.TouristID()
	default:
		return false
	}
}
