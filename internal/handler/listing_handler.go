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

// ListingHandler handles HTTP requests for listing management.
type ListingHandler struct {
	service *application.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *application.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// RegisterRoutes registers listing routes on the given router group.
func (h *ListingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	listings := r.Group("/api/v1/listings")
	{
		listings.GET("", h.ListActive)
		listings.GET("/:id", h.GetListing)
		listings.POST("", authMW, middleware.RequireRole(domain.RoleGuide), h.CreateListing)
		listings.PATCH("/:id", authMW, middleware.RequireRole(domain.RoleGuide, domain.RoleAdmin), h.UpdateListing)
	}

	r.GET("/api/v1/guide/listings", authMW, middleware.RequireRole(domain.RoleGuide), h.ListMine)
}

// ListActive handles GET /api/v1/listings.
func (h *ListingHandler) ListActive(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListActive(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetListing handles GET /api/v1/listings/:id.
func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	result, err := h.service.Get(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateListing handles POST /api/v1/listings.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateListingRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.CreateListing(c.Request.Context(), actor.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateListing handles PATCH /api/v1/listings/:id.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	var req application.UpdateListingRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.UpdateListing(c.Request.Context(), actor, listingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListMine handles GET /api/v1/guide/listings.
func (h *ListingHandler) ListMine(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.ListByGuide(c.Request.Context(), actor.ID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}
