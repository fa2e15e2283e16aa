package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"poultry-market-backend/internal/domains/message/model"
	"poultry-market-backend/internal/domains/message/service"
	"poultry-market-backend/internal/shared/middleware"
	"poultry-market-backend/internal/shared/response"
	"poultry-market-backend/internal/shared/utils"
)

type MessageHandler struct {
	messageService service.ServiceInterface
}

func NewMessageHandler(messageService service.ServiceInterface) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}

// Send posts a message about a listing
// POST /api/v1/messages
func (h *MessageHandler) Send(c *gin.Context) {
	senderID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	msg, err := h.messageService.Send(c.Request.Context(), senderID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, msg)
}

// ListConversations returns the caller's threads. Admins may read any inbox.
// GET /api/v1/users/:id/conversations
func (h *MessageHandler) ListConversations(c *gin.Context) {
	callerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "id", "user ID")
	if !ok {
		return
	}
	if userID != callerID && !middleware.IsAdmin(c) {
		response.FromError(c, model.NewForeignInboxError())
		return
	}

	conversations, err := h.messageService.Conversations(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, conversations)
}

// GetThread
// GET /api/v1/conversations/:listingId/:otherUserId/messages
func (h *MessageHandler) GetThread(c *gin.Context) {
	callerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}
	listingID, ok := uuidParam(c, "listingId", "listing ID")
	if !ok {
		return
	}
	otherID, ok := uuidParam(c, "otherUserId", "user ID")
	if !ok {
		return
	}
	limit := utils.QueryInt(c, "limit", 50)
	offset := utils.QueryInt(c, "offset", 0)

	messages, err := h.messageService.Thread(c.Request.Context(), callerID, otherID, listingID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, messages, &response.Meta{
		Limit:   limit,
		Offset:  offset,
		HasMore: len(messages) == limit,
	})
}
