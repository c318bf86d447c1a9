package http

import (
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/review"
	userhttp "github.com/nekogravitycat/rental-marketplace-backend/internal/user/http"
)

type ListReviewsRequest struct {
	request.ListParams
	SortBy string `form:"sort_by" binding:"omitempty,oneof=created_at rating"`
}

type CreateReviewBody struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID         string           `json:"id"`
	PropertyID string           `json:"property_id"`
	Author     userhttp.UserTag `json:"author"`
	Rating     int              `json:"rating"`
	Comment    string           `json:"comment"`
	CreatedAt  time.Time        `json:"created_at"`
}

func NewReviewResponse(rv *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         rv.ID,
		PropertyID: rv.PropertyID,
		Author:     userhttp.UserTag{ID: rv.AuthorID, Name: rv.AuthorName},
		Rating:     rv.Rating,
		Comment:    rv.Comment,
		CreatedAt:  rv.CreatedAt,
	}
}
