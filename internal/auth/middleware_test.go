package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/apperror"
)

func newTestRouter(m *JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	extractor := TokenExtractor{CookieName: "token"}

	r := gin.New()
	r.GET("/private", AuthRequired(m, extractor), func(c *gin.Context) {
		id := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": id.ID, "role": id.Role})
	})
	r.GET("/public", OptionalAuth(m, extractor), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c)})
	})
	return r
}

func TestAuthRequiredTransports(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)
	r := newTestRouter(m)

	token, err := m.GenerateAccessToken("u-42", "lee@example.com", RoleTenant)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"u-42"`)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"tenant"`)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Basic "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "a.b.c"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "unauthorized")
	})
}

func TestOptionalAuth(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)
	r := newTestRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":""`)

	token, err := m.GenerateAccessToken("u-7", "x@y.z", RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"id":"u-7"`)
}

func TestIdentityChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager(testSecret, time.Hour)
	extractor := TokenExtractor{CookieName: "token"}

	demote := func(_ context.Context, id *Identity) (*Identity, error) {
		if id.ID == "u-gone" {
			return nil, apperror.New(http.StatusUnauthorized, "user is inactive")
		}
		if id.ID == "u-broken" {
			return nil, errors.New("db down")
		}
		return &Identity{ID: id.ID, Email: id.Email, Role: RoleTenant}, nil
	}

	r := gin.New()
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "admin": GetIdentity(c) != nil && GetIdentity(c).IsAdmin()})
	}
	r.GET("/private", AuthRequired(m, extractor, demote), handler)
	r.GET("/public", OptionalAuth(m, extractor, demote), handler)

	get := func(path, userID string) *httptest.ResponseRecorder {
		token, err := m.GenerateAccessToken(userID, "a@b.c", RoleAdmin)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/private", "u-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"admin":false`)

	w = get("/private", "u-gone")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "user is inactive")

	assert.Equal(t, http.StatusInternalServerError, get("/private", "u-broken").Code)

	w = get("/public", "u-gone")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":""`)
}
