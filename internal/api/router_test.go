package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewRouterRegistersModules(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Config{CookieName: "token", DB: fakePinger{}})

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /v1/auth/login",
		"GET /v1/me",
		"GET /v1/properties/:id",
		"POST /v1/properties/:id/images",
		"GET /v1/properties/:id/reviews",
		"PATCH /v1/bookings/:id/status",
		"DELETE /v1/bookings/:id",
		"GET /v1/messages/conversations",
		"DELETE /v1/favorites/:property_id",
		"GET /v1/files/:id/thumbnail",
		"GET /healthz",
	} {
		assert.True(t, registered[want], "route %s not registered", want)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Config{CookieName: "token", DB: fakePinger{}})

	for _, path := range []string{"/v1/bookings", "/v1/messages/conversations", "/v1/favorites", "/v1/me"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
