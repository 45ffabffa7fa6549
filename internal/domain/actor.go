package domain

import "github.com/google/uuid"

// Role is the single role an authenticated actor holds.
type Role string

const (
	RoleTourist Role = "tourist"
	RoleGuide   Role = "guide"
	RoleAdmin   Role = "admin"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	switch r {
	case RoleTourist, RoleGuide, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated identity issuing a request.
type Actor struct {
	ID   uuid.UUID
	Role Role
}
