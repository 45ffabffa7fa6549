package review

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for reviews.
type Repository interface {
	// Create persists the review and marks its booking as reviewed in the same
	// atomic operation. Fails with an already-reviewed error if the booking's
	// review flag was set by a concurrent writer.
	Create(ctx context.Context, r *Review) error

	// FindByListingID retrieves reviews for a listing with pagination, newest first.
	FindByListingID(ctx context.Context, listingID uuid.UUID, page, limit int) ([]*Review, int64, error)

	// RatingSummary returns the average rating and review count for a listing.
	RatingSummary(ctx context.Context, listingID uuid.UUID) (float64, int64, error)
}
