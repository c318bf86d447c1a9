package favorite

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "favorite not found")
	ErrPropertyNotFound = apperror.New(http.StatusNotFound, "property not found")
)

// Favorite is a property saved by a user, with the property loaded.
type Favorite struct {
	UserID    string
	Property  *property.Property
	CreatedAt time.Time
}
