package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types published by this service.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
	BookingDeleted   = "booking.deleted"
	ReviewCreated    = "review.created"
)

// Event types consumed from the payment service.
const (
	PaymentCompleted = "payment.completed"
)

// BookingCreatedEvent is published when a tourist creates a booking.
type BookingCreatedEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	ListingID       uuid.UUID `json:"listing_id"`
	TouristID       uuid.UUID `json:"tourist_id"`
	GuideID         uuid.UUID `json:"guide_id"`
	Date            time.Time `json:"date"`
	GroupSize       int       `json:"group_size"`
	TotalPriceCents int64     `json:"total_price_cents"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is published on every accepted status transition.
type BookingStatusChangedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	ListingID      uuid.UUID `json:"listing_id"`
	TouristID      uuid.UUID `json:"tourist_id"`
	GuideID        uuid.UUID `json:"guide_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ActorID        uuid.UUID `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// BookingDeletedEvent is published on an administrative hard delete.
type BookingDeletedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ReviewCreatedEvent is published when a review is accepted.
type ReviewCreatedEvent struct {
	ReviewID   uuid.UUID `json:"review_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	TouristID  uuid.UUID `json:"tourist_id"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentCompletedEvent is consumed from the payment service when a charge for
// a booking settles.
type PaymentCompletedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
}
