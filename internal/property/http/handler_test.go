package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/file"
	filehttp "github.com/nekogravitycat/rental-marketplace-backend/internal/file/http"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
)

const (
	propertyID = "0b4a7c1e-5f2d-4e8a-9c3b-1d2e3f4a5b6c"
	imageID    = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

// stubProperties holds one listing owned by landlord-1.
type stubProperties struct {
	property.Service
	p       *property.Property
	linked  []string
	linkErr error
}

func (s *stubProperties) GetManaged(_ context.Context, id string, caller auth.Identity) (*property.Property, error) {
	if id != s.p.ID {
		return nil, property.ErrNotFound
	}
	if !property.CanManage(s.p, caller) {
		return nil, property.ErrForbidden
	}
	return s.p, nil
}

func (s *stubProperties) AddImage(_ context.Context, _, fileID string) error {
	if s.linkErr != nil {
		return s.linkErr
	}
	s.linked = append(s.linked, fileID)
	return nil
}

func (s *stubProperties) RemoveImage(ctx context.Context, id string, caller auth.Identity, _ string) error {
	_, err := s.GetManaged(ctx, id, caller)
	return err
}

// stubFiles records uploads and deletes without touching storage.
type stubFiles struct {
	file.Service
	uploads int
	deleted []string
}

func (s *stubFiles) Upload(_ context.Context, in file.UploadInput) (*file.File, error) {
	s.uploads++
	return &file.File{ID: imageID, UserID: in.UserID, ContentType: "image/jpeg"}, nil
}

func (s *stubFiles) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newTestRouter(props property.Service, files file.Service, caller auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		auth.SetIdentity(c, &caller)
		c.Next()
	}
	h := NewHandler(props, files, filehttp.NewHandler(files))
	RegisterRoutes(r.Group("/v1"), h, fakeAuth, fakeAuth)
	return r
}

func uploadImage(t *testing.T, r *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "kitchen.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not inspected by the stub"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/properties/"+propertyID+"/images", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func ownedProperty() *property.Property {
	return &property.Property{ID: propertyID, LandlordID: "landlord-1", IsActive: true}
}

func TestUploadImagePermissions(t *testing.T) {
	tests := []struct {
		name   string
		caller auth.Identity
		want   int
	}{
		{"owner", auth.Identity{ID: "landlord-1", Role: auth.RoleLandlord}, http.StatusCreated},
		{"admin", auth.Identity{ID: "admin-1", Role: auth.RoleAdmin}, http.StatusCreated},
		{"other landlord", auth.Identity{ID: "landlord-2", Role: auth.RoleLandlord}, http.StatusForbidden},
		{"tenant", auth.Identity{ID: "tenant-1", Role: auth.RoleTenant}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := &stubProperties{p: ownedProperty()}
			files := &stubFiles{}

			w := uploadImage(t, newTestRouter(props, files, tt.caller))
			assert.Equal(t, tt.want, w.Code, w.Body.String())

			if tt.want == http.StatusCreated {
				assert.Equal(t, []string{imageID}, props.linked)
			} else {
				assert.Contains(t, w.Body.String(), "permission denied")
				assert.Zero(t, files.uploads, "rejected caller must not store a file")
				assert.Empty(t, props.linked)
			}
		})
	}
}

func TestUploadImageDeletesFileWhenLinkFails(t *testing.T) {
	props := &stubProperties{p: ownedProperty(), linkErr: property.ErrTooManyImages}
	files := &stubFiles{}
	owner := auth.Identity{ID: "landlord-1", Role: auth.RoleLandlord}

	w := uploadImage(t, newTestRouter(props, files, owner))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, files.uploads)
	assert.Equal(t, []string{imageID}, files.deleted)
}

func TestRemoveImage(t *testing.T) {
	remove := func(caller auth.Identity) (*httptest.ResponseRecorder, *stubFiles) {
		files := &stubFiles{}
		r := newTestRouter(&stubProperties{p: ownedProperty()}, files, caller)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/properties/"+propertyID+"/images/"+imageID, nil))
		return w, files
	}

	w, files := remove(auth.Identity{ID: "landlord-2", Role: auth.RoleLandlord})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, files.deleted)

	w, files = remove(auth.Identity{ID: "landlord-1", Role: auth.RoleLandlord})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{imageID}, files.deleted)
}
