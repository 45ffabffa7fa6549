package listing

import (
	"time"

	"github.com/google/uuid"

	"github.com/local-guide/service-booking/internal/domain"
)

// Listing is a guide-authored tour offering with price and capacity bounds.
// The booking lifecycle reads fee, group-size bounds, active flag and guide ID
// at creation time and never mutates a listing.
type Listing struct {
	ID           uuid.UUID `json:"id"`
	GuideID      uuid.UUID `json:"guide_id"`
	Title        string    `json:"title"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	FeeCents     int64     `json:"fee_cents"`
	MinGroupSize int       `json:"min_group_size"`
	MaxGroupSize int       `json:"max_group_size"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewListing creates an active listing with validated fields.
func NewListing(guideID uuid.UUID, title, location, description string, feeCents int64, minGroupSize, maxGroupSize int) (*Listing, error) {
	if guideID == uuid.Nil {
		return nil, domain.NewValidationError("guide ID is required")
	}
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if feeCents <= 0 {
		return nil, domain.NewValidationError("fee must be positive")
	}
	if minGroupSize < 1 {
		return nil, domain.NewValidationError("minimum group size must be at least 1")
	}
	if maxGroupSize < minGroupSize {
		return nil, domain.NewValidationError("maximum group size must not be below the minimum")
	}

	now := time.Now().UTC()
	return &Listing{
		ID:           uuid.New(),
		GuideID:      guideID,
		Title:        title,
		Location:     location,
		Description:  description,
		FeeCents:     feeCents,
		MinGroupSize: minGroupSize,
		MaxGroupSize: maxGroupSize,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsOwnedBy checks if the listing belongs to the given guide.
func (l *Listing) IsOwnedBy(guideID uuid.UUID) bool {
	return l.GuideID == guideID
}

// AllowsGroupSize returns true if the size is within the listing's bounds.
func (l *Listing) AllowsGroupSize(size int) bool {
	return size >= l.MinGroupSize && size <= l.MaxGroupSize
}
