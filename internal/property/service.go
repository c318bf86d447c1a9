package property

import (
	"context"
	"slices"
	"strings"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
)

// CreatePropertyRequest carries data to publish a listing.
type CreatePropertyRequest struct {
	Title         string
	Description   string
	Address       string
	City          string
	Country       string
	PricePerNight float64
	Bedrooms      int
	Bathrooms     int
	MaxGuests     int
	Amenities     []string
}

// UpdatePropertyRequest carries data for partial updates.
type UpdatePropertyRequest struct {
	Title         *string
	Description   *string
	Address       *string
	City          *string
	Country       *string
	PricePerNight *float64
	Bedrooms      *int
	Bathrooms     *int
	MaxGuests     *int
	Amenities     *[]string
	IsActive      *bool
}

type Service interface {
	Create(ctx context.Context, caller auth.Identity, req CreatePropertyRequest) (*Property, error)
	// GetByID returns any property, active or not.
	GetByID(ctx context.Context, id string) (*Property, error)
	// GetVisible hides inactive listings from everyone but their owner and admins.
	GetVisible(ctx context.Context, id string, caller *auth.Identity) (*Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]*Property, int, error)
	Update(ctx context.Context, id string, caller auth.Identity, req UpdatePropertyRequest) (*Property, error)
	Delete(ctx context.Context, id string, caller auth.Identity) error
	// GetManaged returns the property if caller may edit it.
	GetManaged(ctx context.Context, id string, caller auth.Identity) (*Property, error)
	AddImage(ctx context.Context, id, fileID string) error
	RemoveImage(ctx context.Context, id string, caller auth.Identity, fileID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CanManage reports whether caller owns p or is an admin.
func CanManage(p *Property, caller auth.Identity) bool {
	return caller.IsAdmin() || (caller.ID != "" && caller.ID == p.LandlordID)
}

// validateProperty checks the logical rules for a Property struct.
func validateProperty(p *Property) error {
	if p.Title == "" {
		return ErrTitleRequired
	}
	if p.City == "" || p.Country == "" {
		return ErrLocationRequired
	}
	if p.PricePerNight <= 0 {
		return ErrInvalidPrice
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 || p.MaxGuests < 1 {
		return ErrInvalidCapacity
	}
	return nil
}

func (s *service) Create(ctx context.Context, caller auth.Identity, req CreatePropertyRequest) (*Property, error) {
	if caller.Role != auth.RoleLandlord && caller.Role != auth.RoleAdmin {
		return nil, ErrLandlordOnly
	}

	p := &Property{
		LandlordID:    caller.ID,
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		Address:       strings.TrimSpace(req.Address),
		City:          strings.TrimSpace(req.City),
		Country:       strings.TrimSpace(req.Country),
		PricePerNight: req.PricePerNight,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		MaxGuests:     req.MaxGuests,
		Amenities:     normalizeAmenities(req.Amenities),
		IsActive:      true,
	}

	if err := validateProperty(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	// Re-read to pick up joined landlord name and defaults.
	return s.repo.GetByID(ctx, p.ID)
}

func (s *service) GetByID(ctx context.Context, id string) (*Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetVisible(ctx context.Context, id string, caller *auth.Identity) (*Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive && (caller == nil || !CanManage(p, *caller)) {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *service) List(ctx context.Context, filter PropertyFilter) ([]*Property, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) GetManaged(ctx context.Context, id string, caller auth.Identity) (*Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManage(p, caller) {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, caller auth.Identity, req UpdatePropertyRequest) (*Property, error) {
	p, err := s.GetManaged(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.Address != nil {
		p.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		p.City = strings.TrimSpace(*req.City)
	}
	if req.Country != nil {
		p.Country = strings.TrimSpace(*req.Country)
	}
	if req.PricePerNight != nil {
		p.PricePerNight = *req.PricePerNight
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if req.MaxGuests != nil {
		p.MaxGuests = *req.MaxGuests
	}
	if req.Amenities != nil {
		p.Amenities = normalizeAmenities(*req.Amenities)
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := validateProperty(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string, caller auth.Identity) error {
	if _, err := s.GetManaged(ctx, id, caller); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}

// AddImage links an uploaded file. Callers check ownership with GetManaged first.
func (s *service) AddImage(ctx context.Context, id, fileID string) error {
	return s.repo.AddImage(ctx, id, fileID)
}

func (s *service) RemoveImage(ctx context.Context, id string, caller auth.Identity, fileID string) error {
	if _, err := s.GetManaged(ctx, id, caller); err != nil {
		return err
	}
	return s.repo.RemoveImage(ctx, id, fileID)
}

// normalizeAmenities trims, lowercases and de-duplicates, keeping order.
func normalizeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || slices.Contains(out, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}
