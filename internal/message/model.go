package message

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "message not found")
	ErrForbidden         = apperror.New(http.StatusForbidden, "permission denied")
	ErrSelfMessage       = apperror.New(http.StatusBadRequest, "cannot send a message to yourself")
	ErrRecipientNotFound = apperror.New(http.StatusNotFound, "recipient not found")
	ErrPropertyNotFound  = apperror.New(http.StatusNotFound, "property not found")
	ErrContentRequired   = apperror.New(http.StatusBadRequest, "message content is required")
	ErrContentTooLong    = apperror.New(http.StatusBadRequest, "message content is too long")
)

// MaxContentLength is counted in runes.
const MaxContentLength = 4000

type Message struct {
	ID            string
	SenderID      string
	SenderName    string
	RecipientID   string
	RecipientName string
	PropertyID    *string // optional listing the message is about
	Content       string
	ReadAt        *time.Time
	CreatedAt     time.Time
}

// Conversation summarises the exchange with one counterpart.
type Conversation struct {
	CounterpartID   string
	CounterpartName string
	LastMessage     Message
	UnreadCount     int
}

type ConversationFilter struct {
	UserID   string
	WithID   string
	Page     int
	PageSize int
}
