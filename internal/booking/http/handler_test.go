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
	"github.com/nekogravitycat/rental-marketplace-backend/internal/booking"
)

const bookingID = "6f1c2a8e-3d4b-4c5a-9e7f-0a1b2c3d4e5f"

// stubService keeps one booking in memory and runs the real transition rules.
type stubService struct {
	booking.Service
	b       *booking.Booking
	created *booking.CreateRequest
}

func (s *stubService) UpdateStatus(_ context.Context, id, requested string, caller auth.Identity) (*booking.Booking, error) {
	if id != s.b.ID {
		return nil, booking.ErrNotFound
	}
	cp := *s.b
	if err := booking.Transition(&cp, requested, caller); err != nil {
		return nil, err
	}
	s.b = &cp
	return &cp, nil
}

func (s *stubService) Create(_ context.Context, caller auth.Identity, req booking.CreateRequest) (*booking.Booking, error) {
	s.created = &req
	return &booking.Booking{
		ID:         bookingID,
		PropertyID: req.PropertyID,
		TenantID:   caller.ID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Guests:     req.Guests,
		Status:     booking.StatusPending,
	}, nil
}

func newTestRouter(svc booking.Service, caller auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		auth.SetIdentity(c, &caller)
		c.Next()
	}
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), fakeAuth, func(c *gin.Context) { c.Next() })
	return r
}

func pendingBooking() *booking.Booking {
	return &booking.Booking{
		ID:         bookingID,
		TenantID:   "tenant-1",
		LandlordID: "landlord-1",
		StartDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC),
		Status:     booking.StatusPending,
	}
}

func patchStatus(t *testing.T, r *gin.Engine, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/v1/bookings/"+id+"/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateStatusHandler(t *testing.T) {
	landlord := auth.Identity{ID: "landlord-1", Email: "lena@example.com", Role: auth.RoleLandlord}
	tenant := auth.Identity{ID: "tenant-1", Email: "tom@example.com", Role: auth.RoleTenant}

	tests := []struct {
		name     string
		caller   auth.Identity
		id       string
		body     string
		wantCode int
		wantErr  string
	}{
		{"landlord approves", landlord, bookingID, `{"status":"approved"}`, http.StatusOK, ""},
		{"tenant cancels", tenant, bookingID, `{"status":"cancelled"}`, http.StatusOK, ""},
		{"tenant approves", tenant, bookingID, `{"status":"approved"}`, http.StatusForbidden, "permission denied"},
		{"unknown status", landlord, bookingID, `{"status":"archived"}`, http.StatusBadRequest, "invalid booking status"},
		{"back to pending", landlord, bookingID, `{"status":"pending"}`, http.StatusBadRequest, "illegal status transition"},
		{"missing status", landlord, bookingID, `{}`, http.StatusBadRequest, "invalid request body"},
		{"bad id", landlord, "not-a-uuid", `{"status":"approved"}`, http.StatusBadRequest, "invalid booking id"},
		{"unknown booking", landlord, "0b0b0b0b-0b0b-4b0b-8b0b-0b0b0b0b0b0b", `{"status":"approved"}`, http.StatusNotFound, "booking not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{b: pendingBooking()}
			w := patchStatus(t, newTestRouter(svc, tt.caller), tt.id, tt.body)

			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body["error"])
				return
			}
			assert.Equal(t, strings.Trim(strings.TrimPrefix(tt.body, `{"status":`), `"}`), body["status"])
			assert.Equal(t, "2026-08-01", body["start_date"])
			assert.EqualValues(t, 3, body["nights"])
		})
	}
}

func TestCreateHandlerParsesDates(t *testing.T) {
	tenant := auth.Identity{ID: "tenant-1", Email: "tom@example.com", Role: auth.RoleTenant}
	svc := &stubService{b: pendingBooking()}
	r := newTestRouter(svc, tenant)

	body := `{"property_id":"1e2d3c4b-5a69-4788-9a0b-1c2d3e4f5a6b","start_date":"2026-08-01","end_date":"2026-08-05","guests":2}`
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, svc.created)
	assert.Equal(t, time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC), svc.created.EndDate)
	assert.Equal(t, 2, svc.created.Guests)

	bad := `{"property_id":"1e2d3c4b-5a69-4788-9a0b-1c2d3e4f5a6b","start_date":"01/08/2026","end_date":"2026-08-05","guests":2}`
	req = httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(bad))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
