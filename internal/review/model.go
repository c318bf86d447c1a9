package review

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "review not found")
	ErrForbidden        = apperror.New(http.StatusForbidden, "permission denied")
	ErrPropertyNotFound = apperror.New(http.StatusNotFound, "property not found")
	ErrNoCompletedStay  = apperror.New(http.StatusForbidden, "only guests with a completed stay can review this property")
	ErrAlreadyReviewed  = apperror.New(http.StatusConflict, "you have already reviewed this property")
	ErrInvalidRating    = apperror.New(http.StatusBadRequest, "rating must be between 1 and 5")
	ErrCommentTooLong   = apperror.New(http.StatusBadRequest, "comment is too long")
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
)

type Review struct {
	ID         string
	PropertyID string
	AuthorID   string
	AuthorName string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

type Filter struct {
	PropertyID string
	Page       int
	PageSize   int
	SortBy     string // created_at | rating
	SortOrder  string
}
