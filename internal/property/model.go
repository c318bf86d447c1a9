package property

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "property not found")
	ErrForbidden        = apperror.New(http.StatusForbidden, "permission denied")
	ErrLandlordOnly     = apperror.New(http.StatusForbidden, "only landlords can publish properties")
	ErrTitleRequired    = apperror.New(http.StatusBadRequest, "title is required")
	ErrLocationRequired = apperror.New(http.StatusBadRequest, "city and country are required")
	ErrInvalidPrice     = apperror.New(http.StatusBadRequest, "price per night must be positive")
	ErrInvalidCapacity  = apperror.New(http.StatusBadRequest, "invalid room or guest count")
	ErrImageNotFound    = apperror.New(http.StatusNotFound, "image not found on this property")
	ErrTooManyImages    = apperror.New(http.StatusBadRequest, "property already has the maximum number of images")
)

// MaxImages caps the photos attached to one listing.
const MaxImages = 20

// Property is a rentable listing owned by a landlord.
type Property struct {
	ID            string
	LandlordID    string
	LandlordName  string // read-only, joined from users
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
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Aggregates, read-only.
	ImageIDs      []string
	AverageRating float64
	ReviewCount   int
}

// PropertyFilter defines filter options for listing properties.
type PropertyFilter struct {
	Keyword    string // matches title, description or city
	City       string
	Country    string
	LandlordID string
	MinPrice   *float64
	MaxPrice   *float64
	Guests     *int // minimum capacity

	// Inactive listings are hidden unless this is set.
	IncludeInactive bool

	Page      int
	PageSize  int
	SortBy    string // created_at | price_per_night | title
	SortOrder string
}
