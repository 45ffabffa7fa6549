package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/local-guide/service-booking/internal/domain"
)

// Review is a tourist's rating of a completed booking. At most one review
// exists per booking.
type Review struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	ListingID uuid.UUID `json:"listing_id"`
	TouristID uuid.UUID `json:"tourist_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReview creates a review with validated rating and comment bounds.
func NewReview(bookingID, listingID, touristID uuid.UUID, rating int, comment string, maxCommentLen int) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.NewInvalidInputError("rating must be between 1 and 5")
	}
	if comment == "" {
		return nil, domain.NewInvalidInputError("comment is required")
	}
	if maxCommentLen > 0 && len(comment) > maxCommentLen {
		return nil, domain.NewInvalidInputError("comment exceeds the maximum length")
	}

	return &Review{
		ID:        uuid.New(),
		BookingID: bookingID,
		ListingID: listingID,
		TouristID: touristID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}, nil
}
