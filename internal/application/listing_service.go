package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/local-guide/service-booking/internal/domain"
	"github.com/local-guide/service-booking/internal/domain/listing"
)

// ListingCache is the read-through cache the listing registry sits behind.
type ListingCache interface {
	Get(ctx context.Context, id uuid.UUID) *listing.Listing
	Set(ctx context.Context, l *listing.Listing)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// CreateListingRequest holds the data needed to create a listing.
type CreateListingRequest struct {
	Title        string `json:"title" validate:"required"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	FeeCents     int64  `json:"fee_cents" validate:"required,gt=0"`
	MinGroupSize int    `json:"min_group_size" validate:"required,gte=1"`
	MaxGroupSize int    `json:"max_group_size" validate:"required,gtefield=MinGroupSize"`
}

// UpdateListingRequest holds partial updates to a listing. Nil fields are
// left unchanged.
type UpdateListingRequest struct {
	Title        *string `json:"title"`
	Location     *string `json:"location"`
	Description  *string `json:"description"`
	FeeCents     *int64  `json:"fee_cents"`
	MinGroupSize *int    `json:"min_group_size"`
	MaxGroupSize *int    `json:"max_group_size"`
	IsActive     *bool   `json:"is_active"`
}

// ListingService manages guide-owned tour listings and serves as the listing
// registry for the booking lifecycle, fronted by a cache.
type ListingService struct {
	repo   listing.Repository
	cache  ListingCache
	logger *zap.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(repo listing.Repository, cache ListingCache, logger *zap.Logger) *ListingService {
	return &ListingService{repo: repo, cache: cache, logger: logger}
}

// Get implements listing.Registry with a read-through cache.
func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	if l := s.cache.Get(ctx, id); l != nil {
		return l, nil
	}

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, l)
	return l, nil
}

// CreateListing creates an active listing owned by the guide.
func (s *ListingService) CreateListing(ctx context.Context, guideID uuid.UUID, req CreateListingRequest) (*listing.Listing, error) {
	l, err := listing.NewListing(guideID, req.Title, req.Location, req.Description, req.FeeCents, req.MinGroupSize, req.MaxGroupSize)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateListing applies partial updates. Guides may only touch their own
// listings; admins may touch any.
func (s *ListingService) UpdateListing(ctx context.Context, actor domain.Actor, listingID uuid.UUID, req UpdateListingRequest) (*listing.Listing, error) {
	l, err := s.repo.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleAdmin && !l.IsOwnedBy(actor.ID) {
		return nil, domain.NewForbiddenError("listing does not belong to this guide")
	}

	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Location != nil {
		l.Location = *req.Location
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.FeeCents != nil {
		l.FeeCents = *req.FeeCents
	}
	if req.MinGroupSize != nil {
		l.MinGroupSize = *req.MinGroupSize
	}
	if req.MaxGroupSize != nil {
		l.MaxGroupSize = *req.MaxGroupSize
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}

	if l.FeeCents <= 0 {
		return nil, domain.NewValidationError("fee must be positive")
	}
	if l.MinGroupSize < 1 || l.MaxGroupSize < l.MinGroupSize {
		return nil, domain.NewValidationError("invalid group size bounds")
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, listingID)

	s.logger.Info("listing updated",
		zap.String("listing_id", listingID.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	return l, nil
}

// ListActive returns active listings for browsing.
func (s *ListingService) ListActive(ctx context.Context, page, limit int) (*domain.PaginatedResult[*listing.Listing], error) {
	listings, total, err := s.repo.ListActive(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(listings, total, page, limit)
	return &result, nil
}

// ListByGuide returns the guide's own listings, active or not.
func (s *ListingService) ListByGuide(ctx context.Context, guideID uuid.UUID, page, limit int) (*domain.PaginatedResult[*listing.Listing], error) {
	listings, total, err := s.repo.FindByGuideID(ctx, guideID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(listings, total, page, limit)
	return &result, nil
}
