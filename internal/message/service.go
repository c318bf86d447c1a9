package message

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/user"
)

type SendRequest struct {
	SenderID    string
	RecipientID string
	PropertyID  *string
	Content     string
}

// UserGetter is the part of the user service messages need.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// PropertyGetter is the part of the property service messages need.
type PropertyGetter interface {
	GetByID(ctx context.Context, id string) (*property.Property, error)
}

type Service interface {
	Send(ctx context.Context, req SendRequest) (*Message, error)
	ListConversation(ctx context.Context, filter ConversationFilter) ([]*Message, int, error)
	ListConversations(ctx context.Context, userID string, page, pageSize int) ([]*Conversation, int, error)
	MarkRead(ctx context.Context, id, readerID string) (*Message, error)
}

type service struct {
	repo       Repository
	users      UserGetter
	properties PropertyGetter
	now        func() time.Time
}

func NewService(repo Repository, users UserGetter, properties PropertyGetter) Service {
	return &service{
		repo:       repo,
		users:      users,
		properties: properties,
		now:        time.Now,
	}
}

func (s *service) Send(ctx context.Context, req SendRequest) (*Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrContentRequired
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}
	if req.RecipientID == req.SenderID {
		return nil, ErrSelfMessage
	}

	recipient, err := s.users.GetByID(ctx, req.RecipientID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	if !recipient.IsActive {
		return nil, ErrRecipientNotFound
	}

	if req.PropertyID != nil {
		if _, err := s.properties.GetByID(ctx, *req.PropertyID); err != nil {
			if errors.Is(err, property.ErrNotFound) {
				return nil, ErrPropertyNotFound
			}
			return nil, err
		}
	}

	m := &Message{
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		PropertyID:  req.PropertyID,
		Content:     content,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, m.ID)
}

func (s *service) ListConversation(ctx context.Context, filter ConversationFilter) ([]*Message, int, error) {
	return s.repo.ListBetween(ctx, filter)
}

func (s *service) ListConversations(ctx context.Context, userID string, page, pageSize int) ([]*Conversation, int, error) {
	return s.repo.ListConversations(ctx, userID, page, pageSize)
}

// MarkRead is only allowed for the recipient. Marking twice keeps the first time.
func (s *service) MarkRead(ctx context.Context, id, readerID string) (*Message, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.RecipientID != readerID {
		return nil, ErrForbidden
	}

	if err := s.repo.MarkRead(ctx, id, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
