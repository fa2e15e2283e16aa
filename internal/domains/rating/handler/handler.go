package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/rating/model"
	"poultry-market-backend/internal/domains/rating/service"
	"poultry-market-backend/internal/shared/middleware"
	"poultry-market-backend/internal/shared/response"
	"poultry-market-backend/internal/shared/utils"
)

type RatingHandler struct {
	ratingService service.ServiceInterface
}

func NewRatingHandler(ratingService service.ServiceInterface) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// CreateRating rates a seller
// POST /api/v1/ratings
func (h *RatingHandler) CreateRating(c *gin.Context) {
	raterID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	var req model.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rating, err := h.ratingService.CreateRating(c.Request.Context(), raterID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, rating)
}

// GetSellerStats returns average, count and star breakdown
// GET /api/v1/users/:id/ratings/stats
func (h *RatingHandler) GetSellerStats(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	stats, err := h.ratingService.GetSellerStats(c.Request.Context(), sellerID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// ListSellerRatings lists ratings newest first
// GET /api/v1/users/:id/ratings
func (h *RatingHandler) ListSellerRatings(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	limit := utils.QueryInt(c, "limit", 20)
	offset := utils.QueryInt(c, "offset", 0)

	ratings, err := h.ratingService.ListSellerRatings(c.Request.Context(), sellerID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, ratings, &response.Meta{Limit: limit, Offset: offset})
}
