package review

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
)

type CreateRequest struct {
	PropertyID string
	Rating     int
	Comment    string
}

// PropertyGetter is the part of the property service reviews need.
type PropertyGetter interface {
	GetByID(ctx context.Context, id string) (*property.Property, error)
}

// StayChecker tells whether a tenant finished a stay at a property.
type StayChecker interface {
	HasCompletedStay(ctx context.Context, tenantID, propertyID string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, caller auth.Identity, req CreateRequest) (*Review, error)
	List(ctx context.Context, filter Filter) ([]*Review, int, error)
	Delete(ctx context.Context, id string, caller auth.Identity) error
}

type service struct {
	repo       Repository
	properties PropertyGetter
	stays      StayChecker
}

func NewService(repo Repository, properties PropertyGetter, stays StayChecker) Service {
	return &service{repo: repo, properties: properties, stays: stays}
}

func (s *service) Create(ctx context.Context, caller auth.Identity, req CreateRequest) (*Review, error) {
	if req.Rating < MinRating || req.Rating > MaxRating {
		return nil, ErrInvalidRating
	}
	comment := strings.TrimSpace(req.Comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	if _, err := s.properties.GetByID(ctx, req.PropertyID); err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	stayed, err := s.stays.HasCompletedStay(ctx, caller.ID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !stayed {
		return nil, ErrNoCompletedStay
	}

	rv := &Review{
		PropertyID: req.PropertyID,
		AuthorID:   caller.ID,
		Rating:     req.Rating,
		Comment:    comment,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, rv.ID)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Review, int, error) {
	return s.repo.List(ctx, filter)
}

// Delete is allowed for the author and admins.
func (s *service) Delete(ctx context.Context, id string, caller auth.Identity) error {
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rv.AuthorID != caller.ID && !caller.IsAdmin() {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
