package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrIllegalTransition = apperror.New(http.StatusBadRequest, "illegal status transition")
	ErrForbidden         = apperror.New(http.StatusForbidden, "permission denied")
	ErrPropertyNotFound  = apperror.New(http.StatusNotFound, "property not found")
	ErrOwnProperty       = apperror.New(http.StatusForbidden, "landlords cannot book their own property")
	ErrInvalidDateRange  = apperror.New(http.StatusBadRequest, "end date must be after start date")
	ErrStartDatePast     = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrInvalidGuests     = apperror.New(http.StatusBadRequest, "guest count exceeds property capacity")
	ErrDateConflict      = apperror.New(http.StatusConflict, "property is already booked for these dates")
	ErrInvalidView       = apperror.New(http.StatusBadRequest, "invalid booking view")
)

// Booking is a tenant's request to stay at a property for a date range.
// StartDate and EndDate are UTC midnights; EndDate is the checkout day.
type Booking struct {
	ID            string
	PropertyID    string
	PropertyTitle string
	TenantID      string
	TenantName    string
	LandlordID    string
	LandlordName  string
	StartDate     time.Time
	EndDate       time.Time
	Guests        int
	TotalPrice    float64
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Nights is the number of nights between check-in and checkout.
func (b *Booking) Nights() int {
	return nights(b.StartDate, b.EndDate)
}

func nights(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

type Filter struct {
	TenantID   string
	LandlordID string
	PropertyID string
	Status     string
	From       *time.Time // bookings still running after this date
	To         *time.Time // bookings starting before this date
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// View selects whose bookings a listing shows.
type View string

const (
	ViewTenant   View = "tenant"   // bookings the caller made
	ViewLandlord View = "landlord" // bookings on the caller's properties
	ViewAll      View = "all"      // admin only
)
