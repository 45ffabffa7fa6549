package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/local-guide/service-booking/internal/domain"
	"github.com/local-guide/service-booking/internal/domain/listing"
)

// Booking is the aggregate root for the booking lifecycle. All fields except
// status, payment status and the review flag are immutable after creation;
// there is no reschedule and the total price is never recomputed.
type Booking struct {
	id            uuid.UUID
	listingID     uuid.UUID
	touristID     uuid.UUID
	guideID       uuid.UUID
	date          time.Time
	groupSize     int
	totalPriceCents int64
	status        Status
	paymentStatus PaymentStatus
	hasReview     bool

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a PENDING booking for a tourist against a listing,
// validating the listing's availability and capacity bounds as observed now.
// The duplicate-active-booking rule is enforced by the store on insert.
func NewBooking(l *listing.Listing, touristID uuid.UUID, date time.Time, groupSize int) (*Booking, error) {
	if touristID == uuid.Nil {
		return nil, domain.NewValidationError("tourist ID is required")
	}
	if !date.After(time.Now().UTC()) {
		return nil, domain.NewInvalidInputError("booking date must be in the future")
	}
	if !l.IsActive {
		return nil, domain.NewListingUnavailableError(l.ID.String())
	}
	if !l.AllowsGroupSize(groupSize) {
		return nil, domain.NewGroupSizeOutOfRangeError(groupSize, l.MinGroupSize, l.MaxGroupSize)
	}

	totalPriceCents, err := ComputeTotalPrice(l.FeeCents, groupSize)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		listingID:       l.ID,
		touristID:       touristID,
		guideID:         l.GuideID,
		date:            date,
		groupSize:       groupSize,
		totalPriceCents: totalPriceCents,
		status:          StatusPending,
		paymentStatus:   PaymentPending,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, listingID, touristID, guideID uuid.UUID,
	date time.Time,
	groupSize int,
	totalPriceCents int64,
	status Status,
	paymentStatus PaymentStatus,
	hasReview bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		listingID:       listingID,
		touristID:       touristID,
		guideID:         guideID,
		date:            date,
		groupSize:       groupSize,
		totalPriceCents: totalPriceCents,
		status:          status,
		paymentStatus:   paymentStatus,
		hasReview:       hasReview,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// ListingID returns the booked listing's identifier.
func (b *Booking) ListingID() uuid.UUID { return b.listingID }

// TouristID returns the creating tourist's user ID.
func (b *Booking) TouristID() uuid.UUID { return b.touristID }

// GuideID returns the listing owner's user ID, captured at creation time.
func (b *Booking) GuideID() uuid.UUID { return b.guideID }

// Date returns the tour start time.
func (b *Booking) Date() time.Time { return b.date }

// GroupSize returns the booked group size.
func (b *Booking) GroupSize() int { return b.groupSize }

// TotalPriceCents returns the price fixed at creation time.
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// PaymentStatus returns the current payment status.
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }

// HasReview returns true if a review has been accepted for this booking.
func (b *Booking) HasReview() bool { return b.hasReview }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// TransitionTo moves the booking to the target status if the edge exists in
// the transition graph. Authorization is checked separately, before this.
func (b *Booking) TransitionTo(target Status) error {
	if !target.IsValid() {
		return domain.NewInvalidInputError("unknown booking status: " + string(target))
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewIllegalTransitionError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// SetPaymentStatus updates the payment lifecycle. It does not gate, and is not
// gated by, the booking status.
func (b *Booking) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return domain.NewInvalidInputError("unknown payment status: " + string(status))
	}
	b.paymentStatus = status
	b.updatedAt = time.Now().UTC()
	return nil
}

// MarkReviewed flags the booking as reviewed. The flag is never reset.
func (b *Booking) MarkReviewed() error {
	if b.status != StatusCompleted {
		return domain.NewNotEligibleError("only completed bookings can be reviewed")
	}
	if b.hasReview {
		return domain.NewAlreadyReviewedError()
	}
	b.hasReview = true
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
