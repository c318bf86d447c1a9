package http

import (
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/file"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
)

// ListPropertiesRequest defines query parameters for browsing listings.
type ListPropertiesRequest struct {
	request.ListParams
	Keyword    string   `form:"q"`
	City       string   `form:"city"`
	Country    string   `form:"country"`
	LandlordID string   `form:"landlord_id" binding:"omitempty,uuid"`
	MinPrice   *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice   *float64 `form:"max_price" binding:"omitempty,gte=0"`
	Guests     *int     `form:"guests" binding:"omitempty,gte=1"`
	Mine       bool     `form:"mine"`
	SortBy     string   `form:"sort_by" binding:"omitempty,oneof=created_at price_per_night title"`
}

type CreatePropertyBody struct {
	Title         string   `json:"title" binding:"required,max=200"`
	Description   string   `json:"description" binding:"max=5000"`
	Address       string   `json:"address" binding:"max=500"`
	City          string   `json:"city" binding:"required"`
	Country       string   `json:"country" binding:"required"`
	PricePerNight float64  `json:"price_per_night" binding:"required,gt=0"`
	Bedrooms      int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms     int      `json:"bathrooms" binding:"gte=0"`
	MaxGuests     int      `json:"max_guests" binding:"required,gte=1"`
	Amenities     []string `json:"amenities"`
}

type UpdatePropertyBody struct {
	Title         *string   `json:"title" binding:"omitempty,max=200"`
	Description   *string   `json:"description" binding:"omitempty,max=5000"`
	Address       *string   `json:"address" binding:"omitempty,max=500"`
	City          *string   `json:"city"`
	Country       *string   `json:"country"`
	PricePerNight *float64  `json:"price_per_night" binding:"omitempty,gt=0"`
	Bedrooms      *int      `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms     *int      `json:"bathrooms" binding:"omitempty,gte=0"`
	MaxGuests     *int      `json:"max_guests" binding:"omitempty,gte=1"`
	Amenities     *[]string `json:"amenities"`
	IsActive      *bool     `json:"is_active"`
}

// ImageURIRequest binds /properties/:id/images/:file_id.
type ImageURIRequest struct {
	ID     string `uri:"id" binding:"required,uuid"`
	FileID string `uri:"file_id" binding:"required,uuid"`
}

type ImageResponse struct {
	FileID       string `json:"file_id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type LandlordTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PropertyResponse struct {
	ID            string          `json:"id"`
	Landlord      LandlordTag     `json:"landlord"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	Country       string          `json:"country"`
	PricePerNight float64         `json:"price_per_night"`
	Bedrooms      int             `json:"bedrooms"`
	Bathrooms     int             `json:"bathrooms"`
	MaxGuests     int             `json:"max_guests"`
	Amenities     []string        `json:"amenities"`
	Images        []ImageResponse `json:"images"`
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int             `json:"review_count"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func NewPropertyResponse(p *property.Property) PropertyResponse {
	images := make([]ImageResponse, len(p.ImageIDs))
	for i, id := range p.ImageIDs {
		images[i] = ImageResponse{
			FileID:       id,
			URL:          file.FileURL(id),
			ThumbnailURL: file.ThumbnailURL(id),
		}
	}

	amenities := p.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return PropertyResponse{
		ID:            p.ID,
		Landlord:      LandlordTag{ID: p.LandlordID, Name: p.LandlordName},
		Title:         p.Title,
		Description:   p.Description,
		Address:       p.Address,
		City:          p.City,
		Country:       p.Country,
		PricePerNight: p.PricePerNight,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		MaxGuests:     p.MaxGuests,
		Amenities:     amenities,
		Images:        images,
		AverageRating: p.AverageRating,
		ReviewCount:   p.ReviewCount,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
