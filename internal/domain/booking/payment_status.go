package booking

import "fmt"

// PaymentStatus is the secondary lifecycle attached to a booking. It moves
// independently of the booking status: a booking may reach CONFIRMED, and even
// COMPLETED, while payment is still pending (in-person payment is allowed).
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// IsValid returns true if the payment status is recognized.
func (p PaymentStatus) IsValid() bool {
	return p == PaymentPending || p == PaymentCompleted
}

// String returns the string representation of the payment status.
func (p PaymentStatus) String() string {
	return string(p)
}

// ParsePaymentStatus converts a string to a PaymentStatus, returning an error if invalid.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid payment status: %s", s)
	}
	return status, nil
}
