package http

import (
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/message"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/request"
	userhttp "github.com/nekogravitycat/rental-marketplace-backend/internal/user/http"
)

// ListMessagesRequest selects the conversation with one user.
type ListMessagesRequest struct {
	request.ListParams
	With string `form:"with" binding:"required,uuid"`
}

type ListConversationsRequest struct {
	request.ListParams
}

type SendMessageBody struct {
	RecipientID string  `json:"recipient_id" binding:"required,uuid"`
	PropertyID  *string `json:"property_id" binding:"omitempty,uuid"`
	Content     string  `json:"content" binding:"required"`
}

type MessageResponse struct {
	ID         string           `json:"id"`
	Sender     userhttp.UserTag `json:"sender"`
	Recipient  userhttp.UserTag `json:"recipient"`
	PropertyID *string          `json:"property_id"`
	Content    string           `json:"content"`
	ReadAt     *time.Time       `json:"read_at"`
	CreatedAt  time.Time        `json:"created_at"`
}

func NewMessageResponse(m *message.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		Sender:     userhttp.UserTag{ID: m.SenderID, Name: m.SenderName},
		Recipient:  userhttp.UserTag{ID: m.RecipientID, Name: m.RecipientName},
		PropertyID: m.PropertyID,
		Content:    m.Content,
		ReadAt:     m.ReadAt,
		CreatedAt:  m.CreatedAt,
	}
}

type ConversationResponse struct {
	With        userhttp.UserTag `json:"with"`
	LastMessage MessageResponse  `json:"last_message"`
	UnreadCount int              `json:"unread_count"`
}

func NewConversationResponse(c *message.Conversation) ConversationResponse {
	return ConversationResponse{
		With:        userhttp.UserTag{ID: c.CounterpartID, Name: c.CounterpartName},
		LastMessage: NewMessageResponse(&c.LastMessage),
		UnreadCount: c.UnreadCount,
	}
}
