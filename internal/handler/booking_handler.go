package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/local-guide/service-booking/internal/application"
	"github.com/local-guide/service-booking/internal/auth"
	"github.com/local-guide/service-booking/internal/domain"
	bookingDomain "github.com/local-guide/service-booking/internal/domain/booking"
	"github.com/local-guide/service-booking/internal/middleware"
	"github.com/local-guide/service-booking/internal/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", middleware.RequireRole(domain.RoleTourist), h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id/status", h.TransitionBooking)
		bookings.PATCH("/:id/payment-status", middleware.RequireRole(domain.RoleAdmin), h.SetPaymentStatus)
		bookings.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), h.DeleteBooking)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateBookingRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), actor.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings, scoped by role.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.ListBookings(c.Request.Context(), actor, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// transitionRequest is the body of PATCH /api/v1/bookings/:id/status.
type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// TransitionBooking handles PATCH /api/v1/bookings/:id/status.
func (h *BookingHandler) TransitionBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var req transitionRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	target, err := bookingDomain.ParseStatus(req.Status)
	if err != nil {
		response.Error(c, domain.NewInvalidInputError(err.Error()))
		return
	}

	result, err := h.service.TransitionBooking(c.Request.Context(), actor, bookingID, target)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// paymentStatusRequest is the body of PATCH /api/v1/bookings/:id/payment-status.
type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// SetPaymentStatus handles PATCH /api/v1/bookings/:id/payment-status.
func (h *BookingHandler) SetPaymentStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var req paymentStatusRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	status, err := bookingDomain.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		response.Error(c, domain.NewInvalidInputError(err.Error()))
		return
	}

	if err := h.service.SetPaymentStatus(c.Request.Context(), bookingID, status); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// DeleteBooking handles DELETE /api/v1/bookings/:id (admin hard delete).
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	if err := h.service.HardDeleteBooking(c.Request.Context(), actor, bookingID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
