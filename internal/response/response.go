package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/local-guide/service-booking/internal/domain"
)

// ErrorBody is the wire shape of every rejected operation: a stable code the
// caller can branch on plus a human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 response with items and pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// BadRequest writes a 400 response with an invalid-input code.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBody{
		Code:    string(domain.KindInvalidInput),
		Message: message,
	}})
}

// statusFor maps each domain error kind to an HTTP status code.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict, domain.KindIllegalTransition,
		domain.KindDuplicateActiveBooking, domain.KindAlreadyReviewed:
		return http.StatusConflict
	case domain.KindListingUnavailable, domain.KindGroupSizeOutOfRange,
		domain.KindNotEligible:
		return http.StatusUnprocessableEntity
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the response for a failed operation. Domain errors keep their
// kind and message; anything else becomes an opaque 500.
func Error(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorBody{
			Code:    string(domain.KindInternal),
			Message: "internal server error",
		}})
		return
	}
	c.JSON(statusFor(kind), gin.H{"error": ErrorBody{
		Code:    string(kind),
		Message: err.Error(),
	}})
}
