package favorite

import (
	"context"
	"errors"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
)

// PropertyGetter is the part of the property service favorites need.
type PropertyGetter interface {
	GetByID(ctx context.Context, id string) (*property.Property, error)
}

type Service interface {
	Add(ctx context.Context, userID, propertyID string) error
	Remove(ctx context.Context, userID, propertyID string) error
	List(ctx context.Context, userID string, page, pageSize int) ([]*Favorite, int, error)
}

type service struct {
	repo       Repository
	properties PropertyGetter
}

func NewService(repo Repository, properties PropertyGetter) Service {
	return &service{repo: repo, properties: properties}
}

// Add saves an active property. Saving it twice is not an error.
func (s *service) Add(ctx context.Context, userID, propertyID string) error {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return ErrPropertyNotFound
		}
		return err
	}
	if !p.IsActive {
		return ErrPropertyNotFound
	}
	return s.repo.Add(ctx, userID, propertyID)
}

func (s *service) Remove(ctx context.Context, userID, propertyID string) error {
	return s.repo.Remove(ctx, userID, propertyID)
}

func (s *service) List(ctx context.Context, userID string, page, pageSize int) ([]*Favorite, int, error) {
	return s.repo.List(ctx, userID, page, pageSize)
}
