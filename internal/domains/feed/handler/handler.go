package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"poultry-market-backend/internal/domains/feed/service"
	"poultry-market-backend/internal/shared/middleware"
	"poultry-market-backend/internal/shared/response"
)

type FeedHandler struct {
	feedService service.ServiceInterface
}

func NewFeedHandler(feedService service.ServiceInterface) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// GetFollowingFeed returns recent listings from followed sellers
// GET /api/v1/feed/following
func (h *FeedHandler) GetFollowingFeed(c *gin.Context) {
	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	feed, err := h.feedService.Following(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, feed, &response.Meta{
		Limit:   len(feed.Items),
		Partial: feed.Partial,
	})
}
