package booking

import "github.com/local-guide/service-booking/internal/domain"

// ComputeTotalPrice returns the total price in cents for a booking:
// listing fee times group size. The result is fixed at creation time and
// never recomputed, even if the listing's fee changes later.
func ComputeTotalPrice(feeCents int64, groupSize int) (int64, error) {
	if feeCents <= 0 {
		return 0, domain.NewValidationError("listing fee must be positive")
	}
	if groupSize <= 0 {
		return 0, domain.NewValidationError("group size must be positive")
	}
	return feeCents * int64(groupSize), nil
}
