package domain

import (
	"errors"
	"fmt"
)

// Kind is a stable, machine-readable error category. Callers branch on the
// kind, never on the message text.
type Kind string

const (
	KindNotFound               Kind = "NOT_FOUND"
	KindForbidden              Kind = "FORBIDDEN"
	KindIllegalTransition      Kind = "ILLEGAL_TRANSITION"
	KindConflict               Kind = "CONFLICT"
	KindListingUnavailable     Kind = "LISTING_UNAVAILABLE"
	KindGroupSizeOutOfRange    Kind = "GROUP_SIZE_OUT_OF_RANGE"
	KindDuplicateActiveBooking Kind = "DUPLICATE_ACTIVE_BOOKING"
	KindNotEligible            Kind = "NOT_ELIGIBLE"
	KindAlreadyReviewed        Kind = "ALREADY_REVIEWED"
	KindInvalidInput           Kind = "INVALID_INPUT"
	KindInternal               Kind = "INTERNAL"
)

// Error is a typed domain error carrying a stable kind.
type Error struct {
	Kind    Kind
	Message string
}

// Error returns the human-readable message.
func (e *Error) Error() string {
	return e.Message
}

// NewNotFoundError creates a not-found error for the given entity and identifier.
func NewNotFoundError(entity, id string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewForbiddenError creates an authorization-denied error.
func NewForbiddenError(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewIllegalTransitionError creates an error for a status edge outside the transition graph.
func NewIllegalTransitionError(from, to string) error {
	return &Error{Kind: KindIllegalTransition, Message: fmt.Sprintf("illegal transition from %s to %s", from, to)}
}

// NewConflictError creates an optimistic-concurrency conflict error. This is the
// only kind expected under normal concurrent operation; callers re-fetch and retry.
func NewConflictError(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewListingUnavailableError creates an error for booking attempts against an inactive listing.
func NewListingUnavailableError(listingID string) error {
	return &Error{Kind: KindListingUnavailable, Message: fmt.Sprintf("listing %s is not available for booking", listingID)}
}

// NewGroupSizeOutOfRangeError creates an error for a group size outside the listing's bounds.
func NewGroupSizeOutOfRangeError(size, min, max int) error {
	return &Error{Kind: KindGroupSizeOutOfRange, Message: fmt.Sprintf("group size %d is outside the allowed range [%d, %d]", size, min, max)}
}

// NewDuplicateActiveBookingError creates an error for a second non-terminal
// booking on the same (tourist, listing) pair.
func NewDuplicateActiveBookingError() error {
	return &Error{Kind: KindDuplicateActiveBooking, Message: "an active booking already exists for this listing"}
}

// NewNotEligibleError creates an error for a review attempt without a completed booking.
func NewNotEligibleError(message string) error {
	return &Error{Kind: KindNotEligible, Message: message}
}

// NewAlreadyReviewedError creates an error for a second review against the same booking.
func NewAlreadyReviewedError() error {
	return &Error{Kind: KindAlreadyReviewed, Message: "this booking has already been reviewed"}
}

// NewInvalidInputError creates an error for a malformed or out-of-bounds request.
func NewInvalidInputError(message string) error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// NewValidationError creates an invalid-input error from a field-level validation failure.
func NewValidationError(message string) error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// KindOf extracts the kind from an error chain, or KindInternal if the error
// is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether the error chain contains a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
