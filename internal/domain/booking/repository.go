package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates.
//
// Save must enforce the single-active-booking rule: at most one booking per
// (tourist, listing) pair in a non-terminal status, serialized against
// concurrent inserts. Update must apply compare-and-swap semantics on the
// version column and fail with a conflict when the row changed underneath.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByTouristID retrieves bookings created by a tourist with pagination.
	FindByTouristID(ctx context.Context, touristID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByGuideID retrieves bookings on listings owned by a guide with pagination.
	FindByGuideID(ctx context.Context, guideID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// HasActiveBooking reports whether a non-terminal booking exists for the pair.
	HasActiveBooking(ctx context.Context, touristID, listingID uuid.UUID) (bool, error)

	// FindLatestCompleted retrieves the most recent COMPLETED booking for the
	// pair, or a not-found error if none exists.
	FindLatestCompleted(ctx context.Context, touristID, listingID uuid.UUID) (*Booking, error)

	// Save persists a new booking.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error

	// Delete removes a booking outright (admin hard delete).
	Delete(ctx context.Context, id uuid.UUID) error
}
