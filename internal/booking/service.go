package booking

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
)

type CreateRequest struct {
	PropertyID string
	StartDate  time.Time
	EndDate    time.Time
	Guests     int
}

// PropertyGetter is the part of the property service bookings need.
type PropertyGetter interface {
	GetByID(ctx context.Context, id string) (*property.Property, error)
}

type Service interface {
	Create(ctx context.Context, caller auth.Identity, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string, caller auth.Identity) (*Booking, error)
	List(ctx context.Context, caller auth.Identity, view View, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, requested string, caller auth.Identity) (*Booking, error)
	Delete(ctx context.Context, id string, caller auth.Identity) error
	// HasCompletedStay reports whether tenantID finished a stay at propertyID.
	HasCompletedStay(ctx context.Context, tenantID, propertyID string) (bool, error)
}

type service struct {
	repo       Repository
	properties PropertyGetter
	now        func() time.Time
}

func NewService(repo Repository, properties PropertyGetter) Service {
	return &service{
		repo:       repo,
		properties: properties,
		now:        time.Now,
	}
}

// truncateDay drops the clock part, keeping the calendar date in UTC.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// canView reports whether caller is a party to b or an admin.
func canView(b *Booking, caller auth.Identity) bool {
	return caller.IsAdmin() || caller.ID == b.TenantID || caller.ID == b.LandlordID
}

func (s *service) Create(ctx context.Context, caller auth.Identity, req CreateRequest) (*Booking, error) {
	start := truncateDay(req.StartDate)
	end := truncateDay(req.EndDate)

	// 1. Validate date range
	if !end.After(start) {
		return nil, ErrInvalidDateRange
	}
	if start.Before(truncateDay(s.now().UTC())) {
		return nil, ErrStartDatePast
	}

	// 2. Validate property
	p, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrPropertyNotFound
	}
	if p.LandlordID == caller.ID {
		return nil, ErrOwnProperty
	}
	if req.Guests < 1 || req.Guests > p.MaxGuests {
		return nil, ErrInvalidGuests
	}

	// 3. Only approved bookings block dates; pending requests may compete.
	hasOverlap, err := s.repo.HasApprovedOverlap(ctx, p.ID, start, end, "")
	if err != nil {
		return nil, err
	}
	if hasOverlap {
		return nil, ErrDateConflict
	}

	// 4. Create booking
	b := &Booking{
		PropertyID: p.ID,
		TenantID:   caller.ID,
		LandlordID: p.LandlordID,
		StartDate:  start,
		EndDate:    end,
		Guests:     req.Guests,
		TotalPrice: math.Round(float64(nights(start, end))*p.PricePerNight*100) / 100,
		Status:     StatusPending,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, b.ID)
}

func (s *service) GetByID(ctx context.Context, id string, caller auth.Identity) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(b, caller) {
		return nil, ErrForbidden
	}
	return b, nil
}

// List scopes filter to the caller. Admins default to every booking, everyone
// else to the bookings they made.
func (s *service) List(ctx context.Context, caller auth.Identity, view View, filter Filter) ([]*Booking, int, error) {
	if view == "" {
		view = ViewTenant
		if caller.IsAdmin() {
			view = ViewAll
		}
	}

	switch view {
	case ViewTenant:
		filter.TenantID = caller.ID
	case ViewLandlord:
		filter.LandlordID = caller.ID
	case ViewAll:
		if !caller.IsAdmin() {
			return nil, 0, ErrForbidden
		}
	default:
		return nil, 0, ErrInvalidView
	}

	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id string, requested string, caller auth.Identity) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := Transition(b, requested, caller); err != nil {
		return nil, err
	}

	// Two approved stays may not share a night.
	if b.Status == StatusApproved {
		hasOverlap, err := s.repo.HasApprovedOverlap(ctx, b.PropertyID, b.StartDate, b.EndDate, b.ID)
		if err != nil {
			return nil, err
		}
		if hasOverlap {
			return nil, ErrDateConflict
		}
	}

	if err := s.repo.UpdateStatus(ctx, b.ID, b.Status); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, b.ID)
}

// Delete removes a booking regardless of status.
func (s *service) Delete(ctx context.Context, id string, caller auth.Identity) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) HasCompletedStay(ctx context.Context, tenantID, propertyID string) (bool, error) {
	_, total, err := s.repo.List(ctx, Filter{
		TenantID:   tenantID,
		PropertyID: propertyID,
		Status:     string(StatusCompleted),
		PageSize:   1,
	})
	if err != nil {
		return false, err
	}
	return total > 0, nil
}
