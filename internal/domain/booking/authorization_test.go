package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/local-guide/service-booking/internal/domain"
)

func bookingFor(touristID, guideID uuid.UUID, status Status) *Booking {
	now := time.Now().UTC()
	return Reconstruct(
		uuid.New(), uuid.New(), touristID, guideID,
		now.Add(48*time.Hour), 4, 10000,
		status, PaymentPending, false, 1, now, now,
	)
}

func TestIsAllowed(t *testing.T) {
	touristID := uuid.New()
	guideID := uuid.New()

	tourist := domain.Actor{ID: touristID, Role: domain.RoleTourist}
	guide := domain.Actor{ID: guideID, Role: domain.RoleGuide}
	admin := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
	otherTourist := domain.Actor{ID: uuid.New(), Role: domain.RoleTourist}
	otherGuide := domain.Actor{ID: uuid.New(), Role: domain.RoleGuide}

	tests := []struct {
		name    string
		actor   domain.Actor
		status  Status
		target  Status
		allowed bool
	}{
		{"tourist withdraws own pending booking", tourist, StatusPending, StatusCancelled, true},
		{"tourist cannot confirm own booking", tourist, StatusPending, StatusConfirmed, false},
		{"tourist cannot cancel once confirmed", tourist, StatusConfirmed, StatusCancelled, false},
		{"other tourist denied", otherTourist, StatusPending, StatusCancelled, false},
		{"guide confirms booking on own listing", guide, StatusPending, StatusConfirmed, true},
		{"guide completes booking on own listing", guide, StatusConfirmed, StatusCompleted, true},
		{"guide cancels booking on own listing", guide, StatusConfirmed, StatusCancelled, true},
		{"guide of another listing denied", otherGuide, StatusPending, StatusConfirmed, false},
		{"admin may drive any transition", admin, StatusConfirmed, StatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bk := bookingFor(touristID, guideID, tt.status)
			assert.Equal(t, tt.allowed, IsAllowed(tt.actor, bk, tt.target))
		})
	}
}

func TestCanHardDelete(t *testing.T) {
	assert.True(t, CanHardDelete(domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}))
	assert.False(t, CanHardDelete(domain.Actor{ID: uuid.New(), Role: domain.RoleGuide}))
	assert.False(t, CanHardDelete(domain.Actor{ID: uuid.New(), Role: domain.RoleTourist}))
}

func TestCanView(t *testing.T) {
	touristID := uuid.New()
	guideID := uuid.New()
	bk := bookingFor(touristID, guideID, StatusPending)

	assert.True(t, CanView(domain.Actor{ID: touristID, Role: domain.RoleTourist}, bk))
	assert.True(t, CanView(domain.Actor{ID: guideID, Role: domain.RoleGuide}, bk))
	assert.True(t, CanView(domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}, bk))
	assert.False(t, CanView(domain.Actor{ID: uuid.New(), Role: domain.RoleTourist}, bk))
	assert.False(t, CanView(domain.Actor{ID: uuid.New(), Role: domain.RoleGuide}, bk))
}
