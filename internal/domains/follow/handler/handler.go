package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"poultry-market-backend/internal/domains/follow/service"
	"poultry-market-backend/internal/shared/middleware"
	"poultry-market-backend/internal/shared/response"
	"poultry-market-backend/internal/shared/utils"
)

// ReconcileDispatcher queues an on-demand counter reconciliation.
type ReconcileDispatcher interface {
	EnqueueReconcileFollowCounters(ctx context.Context, requestedBy string) (string, error)
}

type FollowHandler struct {
	followService service.ServiceInterface
	dispatcher    ReconcileDispatcher
}

func NewFollowHandler(followService service.ServiceInterface, dispatcher ReconcileDispatcher) *FollowHandler {
	return &FollowHandler{followService: followService, dispatcher: dispatcher}
}

func targetID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}

// Follow follows a user
// POST /api/v1/users/:id/follow
func (h *FollowHandler) Follow(c *gin.Context) {
	followerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}
	followeeID, ok := targetID(c)
	if !ok {
		return
	}

	if err := h.followService.Follow(c.Request.Context(), followerID, followeeID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"following": true})
}

// Unfollow removes the follow edge if present
// DELETE /api/v1/users/:id/follow
func (h *FollowHandler) Unfollow(c *gin.Context) {
	followerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}
	followeeID, ok := targetID(c)
	if !ok {
		return
	}

	if err := h.followService.Unfollow(c.Request.Context(), followerID, followeeID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"following": false})
}

// GetStats returns follower and following counts
// GET /api/v1/users/:id/follow-stats
func (h *FollowHandler) GetStats(c *gin.Context) {
	userID, ok := targetID(c)
	if !ok {
		return
	}

	var viewer *uuid.UUID
	if id, ok := middleware.UserID(c); ok {
		viewer = &id
	}

	stats, err := h.followService.Stats(c.Request.Context(), userID, viewer)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// ListFollowers
// GET /api/v1/users/:id/followers
func (h *FollowHandler) ListFollowers(c *gin.Context) {
	userID, ok := targetID(c)
	if !ok {
		return
	}
	limit := utils.QueryInt(c, "limit", 20)
	offset := utils.QueryInt(c, "offset", 0)

	followers, err := h.followService.Followers(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, followers, &response.Meta{Limit: limit, Offset: offset})
}

// ListFollowing
// GET /api/v1/users/:id/following
func (h *FollowHandler) ListFollowing(c *gin.Context) {
	userID, ok := targetID(c)
	if !ok {
		return
	}
	limit := utils.QueryInt(c, "limit", 20)
	offset := utils.QueryInt(c, "offset", 0)

	following, err := h.followService.Following(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, following, &response.Meta{Limit: limit, Offset: offset})
}

// ReconcileCounters queues a counter reconciliation run
// POST /api/v1/admin/follows/reconcile
func (h *FollowHandler) ReconcileCounters(c *gin.Context) {
	adminID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	if h.dispatcher == nil {
		response.ErrorResponse(c, http.StatusServiceUnavailable, "JOBS_UNAVAILABLE", "Background jobs are not configured")
		return
	}

	taskID, err := h.dispatcher.EnqueueReconcileFollowCounters(c.Request.Context(), adminID.String())
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			response.Success(c, http.StatusAccepted, gin.H{"queued": false, "message": "A reconciliation is already queued"})
			return
		}
		response.InternalServerError(c, "Failed to queue reconciliation")
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"queued": true, "task_id": taskID})
}
