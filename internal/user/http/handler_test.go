package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/user"
)

const cookieName = "token"

// stubService accepts one account with a fixed password.
type stubService struct {
	user.Service
	u *user.User
}

func (s *stubService) Login(_ context.Context, email, password string) (*user.User, error) {
	if email != s.u.Email || password != "correct horse" {
		return nil, user.ErrInvalidCredentials
	}
	return s.u, nil
}

func (s *stubService) GetByID(_ context.Context, id string) (*user.User, error) {
	if id != s.u.ID {
		return nil, user.ErrNotFound
	}
	return s.u, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	svc := &stubService{u: &user.User{
		ID:       "user-1",
		Email:    "tom@example.com",
		Role:     auth.RoleTenant,
		IsActive: true,
	}}

	r := gin.New()
	authMiddleware := auth.AuthRequired(jwtManager, auth.TokenExtractor{CookieName: cookieName})
	h := NewHandler(svc, jwtManager, CookieConfig{Name: cookieName, Secure: true})
	RegisterRoutes(r.Group("/v1"), h, authMiddleware, func(c *gin.Context) { c.Next() })
	return r, jwtManager
}

func login(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", cookieName)
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r, jwtManager := newTestRouter(t)

	w := login(r, `{"email":"tom@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int(time.Hour.Seconds()), resp.ExpiresIn)

	cookie := sessionCookie(t, w)
	assert.Equal(t, resp.AccessToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)

	id, err := jwtManager.Authenticate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.ID)
}

func TestCookieAloneAuthenticates(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := sessionCookie(t, login(r, `{"email":"tom@example.com","password":"correct horse"}`))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie.Value})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.User.ID)

	// Without the cookie the same request is rejected.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginWrongPasswordSetsNoCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := login(r, `{"email":"tom@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	cookie := sessionCookie(t, w)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
	assert.True(t, cookie.HttpOnly)
}
