package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/message"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/response"
)

type Handler struct {
	service message.Service
}

func NewHandler(service message.Service) *Handler {
	return &Handler{service: service}
}

// List returns the conversation between the caller and ?with=<user id>.
func (h *Handler) List(c *gin.Context) {
	var req ListMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	msgs, total, err := h.service.ListConversation(c.Request.Context(), message.ConversationFilter{
		UserID:   auth.GetUserID(c),
		WithID:   req.With,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.MapPage(msgs, NewMessageResponse, req.Page, req.PageSize, total))
}

func (h *Handler) Conversations(c *gin.Context) {
	var req ListConversationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	convs, total, err := h.service.ListConversations(c.Request.Context(), auth.GetUserID(c), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.MapPage(convs, NewConversationResponse, req.Page, req.PageSize, total))
}

func (h *Handler) Send(c *gin.Context) {
	var body SendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	m, err := h.service.Send(c.Request.Context(), message.SendRequest{
		SenderID:    auth.GetUserID(c),
		RecipientID: body.RecipientID,
		PropertyID:  body.PropertyID,
		Content:     body.Content,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewMessageResponse(m))
}

// MarkRead flags a received message as read.
func (h *Handler) MarkRead(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid message id", err)
		return
	}

	m, err := h.service.MarkRead(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewMessageResponse(m))
}
