package listing

import (
	"context"

	"github.com/google/uuid"
)

// Registry is the read-side contract the booking lifecycle depends on.
type Registry interface {
	// Get retrieves a listing by its unique identifier.
	Get(ctx context.Context, id uuid.UUID) (*Listing, error)
}

// Repository defines the persistence contract for listings.
type Repository interface {
	Registry

	// FindByGuideID retrieves listings owned by a specific guide with pagination.
	FindByGuideID(ctx context.Context, guideID uuid.UUID, page, limit int) ([]*Listing, int64, error)

	// ListActive retrieves active listings with pagination.
	ListActive(ctx context.Context, page, limit int) ([]*Listing, int64, error)

	// Save persists a new listing.
	Save(ctx context.Context, l *Listing) error

	// Update persists changes to an existing listing.
	Update(ctx context.Context, l *Listing) error
}
