package http

import (
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/favorite"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/request"
	propertyhttp "github.com/nekogravitycat/rental-marketplace-backend/internal/property/http"
)

type ListFavoritesRequest struct {
	request.ListParams
}

type AddFavoriteBody struct {
	PropertyID string `json:"property_id" binding:"required,uuid"`
}

// PropertyURIRequest binds /favorites/:property_id.
type PropertyURIRequest struct {
	PropertyID string `uri:"property_id" binding:"required,uuid"`
}

type FavoriteResponse struct {
	Property  propertyhttp.PropertyResponse `json:"property"`
	CreatedAt time.Time                     `json:"created_at"`
}

func NewFavoriteResponse(f *favorite.Favorite) FavoriteResponse {
	return FavoriteResponse{
		Property:  propertyhttp.NewPropertyResponse(f.Property),
		CreatedAt: f.CreatedAt,
	}
}
