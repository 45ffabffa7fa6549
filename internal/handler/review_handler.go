package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/local-guide/service-booking/internal/application"
	"github.com/local-guide/service-booking/internal/auth"
	"github.com/local-guide/service-booking/internal/domain"
	"github.com/local-guide/service-booking/internal/middleware"
	"github.com/local-guide/service-booking/internal/response"
)

// ReviewHandler handles HTTP requests for review operations.
type ReviewHandler struct {
	service *application.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers review routes on the given router group.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	r.POST("/api/v1/reviews", authMW, middleware.RequireRole(domain.RoleTourist), h.SubmitReview)
	r.GET("/api/v1/listings/:id/reviews", h.ListListingReviews)
	r.GET("/api/v1/listings/:id/rating", h.GetListingRating)
}

// SubmitReview handles POST /api/v1/reviews.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.SubmitReviewRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.SubmitReview(c.Request.Context(), actor.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListListingReviews handles GET /api/v1/listings/:id/reviews.
func (h *ReviewHandler) ListListingReviews(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.ListListingReviews(c.Request.Context(), listingID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetListingRating handles GET /api/v1/listings/:id/rating.
func (h *ReviewHandler) GetListingRating(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	result, err := h.service.GetListingRating(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
