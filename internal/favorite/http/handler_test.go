package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/favorite"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/response"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
)

const (
	propertyID = "2f3e4d5c-6b7a-4890-a1b2-c3d4e5f6a7b8"
	missingID  = "8b7a6f5e-4d3c-4b2a-9f0e-1d2c3b4a5f6e"
)

// stubService keeps one user's favorites in memory.
type stubService struct {
	saved map[string]bool
}

func (s *stubService) Add(_ context.Context, _, propertyID string) error {
	if propertyID == missingID {
		return favorite.ErrPropertyNotFound
	}
	s.saved[propertyID] = true
	return nil
}

func (s *stubService) Remove(_ context.Context, _, propertyID string) error {
	if !s.saved[propertyID] {
		return favorite.ErrNotFound
	}
	delete(s.saved, propertyID)
	return nil
}

func (s *stubService) List(_ context.Context, userID string, _, _ int) ([]*favorite.Favorite, int, error) {
	var out []*favorite.Favorite
	for id := range s.saved {
		out = append(out, &favorite.Favorite{UserID: userID, Property: &property.Property{ID: id, Title: "Loft"}})
	}
	return out, len(out), nil
}

func newTestRouter(svc favorite.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		auth.SetIdentity(c, &auth.Identity{ID: "tenant-1", Role: auth.RoleTenant})
		c.Next()
	}
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), fakeAuth)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFavoritesFlow(t *testing.T) {
	r := newTestRouter(&stubService{saved: map[string]bool{}})

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/v1/favorites", `{"property_id":"`+propertyID+`"}`).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/v1/favorites", `{"property_id":"`+propertyID+`"}`).Code)

	w := do(r, http.MethodGet, "/v1/favorites", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page response.PageResponse[FavoriteResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, propertyID, page.Items[0].Property.ID)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/v1/favorites/"+propertyID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/v1/favorites/"+propertyID, "").Code)
}

func TestAddFavoriteErrors(t *testing.T) {
	r := newTestRouter(&stubService{saved: map[string]bool{}})

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/v1/favorites", `{"property_id":"`+missingID+`"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/v1/favorites", `{"property_id":"abc"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/v1/favorites/abc", "").Code)
}
