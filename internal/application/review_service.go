package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/local-guide/service-booking/internal/domain"
	bookingDomain "github.com/local-guide/service-booking/internal/domain/booking"
	"github.com/local-guide/service-booking/internal/domain/review"
	"github.com/local-guide/service-booking/internal/events"
	"github.com/local-guide/service-booking/internal/kafka"
)

// SubmitReviewRequest holds the data needed to review a completed tour.
type SubmitReviewRequest struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"required"`
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	ListingID uuid.UUID `json:"listing_id"`
	TouristID uuid.UUID `json:"tourist_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ListingRatingDTO aggregates the review read side for a listing.
type ListingRatingDTO struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// ReviewService guards review creation: one review per completed booking,
// filed by its tourist.
type ReviewService struct {
	bookings      bookingDomain.Repository
	reviews       review.Repository
	producer      EventPublisher
	maxCommentLen int
	logger        *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	bookings bookingDomain.Repository,
	reviews review.Repository,
	producer EventPublisher,
	maxCommentLen int,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		bookings:      bookings,
		reviews:       reviews,
		producer:      producer,
		maxCommentLen: maxCommentLen,
		logger:        logger,
	}
}

// SubmitReview files a review against the tourist's most recent completed
// booking on the listing. The review row and the booking's review flag are
// written in one atomic operation by the repository.
func (s *ReviewService) SubmitReview(ctx context.Context, touristID uuid.UUID, req SubmitReviewRequest) (*ReviewDTO, error) {
	bk, err := s.bookings.FindLatestCompleted(ctx, touristID, req.ListingID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NewNotEligibleError("no completed booking found for this listing")
		}
		return nil, err
	}

	if bk.HasReview() {
		return nil, domain.NewAlreadyReviewedError()
	}

	r, err := review.NewReview(bk.ID(), req.ListingID, touristID, req.Rating, req.Comment, s.maxCommentLen)
	if err != nil {
		return nil, err
	}

	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, err
	}

	evt := events.ReviewCreatedEvent{
		ReviewID:   r.ID,
		BookingID:  r.BookingID,
		ListingID:  r.ListingID,
		TouristID:  r.TouristID,
		Rating:     r.Rating,
		OccurredAt: time.Now().UTC(),
	}
	s.publishReviewEvent(ctx, evt)

	result := toReviewDTO(r)
	return &result, nil
}

// ListListingReviews returns a listing's reviews, newest first.
func (s *ReviewService) ListListingReviews(ctx context.Context, listingID uuid.UUID, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	reviews, total, err := s.reviews.FindByListingID(ctx, listingID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		dtos[i] = toReviewDTO(r)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetListingRating returns the average rating and review count for a listing.
func (s *ReviewService) GetListingRating(ctx context.Context, listingID uuid.UUID) (*ListingRatingDTO, error) {
	avg, count, err := s.reviews.RatingSummary(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return &ListingRatingDTO{AverageRating: avg, ReviewCount: count}, nil
}

func toReviewDTO(r *review.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		BookingID: r.BookingID,
		ListingID: r.ListingID,
		TouristID: r.TouristID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func (s *ReviewService) publishReviewEvent(ctx context.Context, evt events.ReviewCreatedEvent) {
	cloudEvent, err := kafka.NewCloudEvent("service-booking", events.ReviewCreated, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish review event", zap.Error(err))
	}
}
