package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/listing/model"
	"poultry-market-backend/internal/domains/listing/service"
	"poultry-market-backend/internal/shared/middleware"
	"poultry-market-backend/internal/shared/response"
	"poultry-market-backend/internal/shared/utils"
)

type ListingHandler struct {
	listingService service.ServiceInterface
}

func NewListingHandler(listingService service.ServiceInterface) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListing publishes a listing for the caller
// POST /api/v1/listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	sellerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	var req model.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), sellerID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, listing)
}

// GetListing GET /api/v1/listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid listing ID")
		return
	}

	listing, err := h.listingService.GetListing(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, listing)
}

// ListSellerListings GET /api/v1/users/:id/listings
func (h *ListingHandler) ListSellerListings(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	listings, err := h.listingService.ListSellerListings(c.Request.Context(), sellerID, utils.QueryInt(c, "limit", 0))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, listings)
}

// DeleteListing soft-deletes the caller's listing
// DELETE /api/v1/listings/:id
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	h.deactivate(c)
}

// DeactivateListing lets an admin take down any listing
// POST /api/v1/admin/listings/:id/deactivate
func (h *ListingHandler) DeactivateListing(c *gin.Context) {
	h.deactivate(c)
}

func (h *ListingHandler) deactivate(c *gin.Context) {
	actorID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid listing ID")
		return
	}

	if err := h.listingService.DeactivateListing(c.Request.Context(), actorID, middleware.IsAdmin(c), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "is_active": false})
}

// AdminStats GET /api/v1/admin/stats
func (h *ListingHandler) AdminStats(c *gin.Context) {
	stats, err := h.listingService.AdminStats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}
