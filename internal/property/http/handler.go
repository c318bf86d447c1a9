package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/file"
	filehttp "github.com/nekogravitycat/rental-marketplace-backend/internal/file/http"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/request"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/response"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
)

const maxImageBytes = 5 * 1024 * 1024

type PropertyHandler struct {
	service     property.Service
	fileService file.Service
	fileHandler *filehttp.Handler
}

func NewHandler(service property.Service, fileService file.Service, fileHandler *filehttp.Handler) *PropertyHandler {
	return &PropertyHandler{
		service:     service,
		fileService: fileService,
		fileHandler: fileHandler,
	}
}

// List browses active listings. With mine=true it returns the caller's own
// listings, inactive ones included.
func (h *PropertyHandler) List(c *gin.Context) {
	var req ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	filter := property.PropertyFilter{
		Keyword:    req.Keyword,
		City:       req.City,
		Country:    req.Country,
		LandlordID: req.LandlordID,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
		Guests:     req.Guests,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	if req.Mine {
		caller := auth.GetIdentity(c)
		if caller == nil {
			response.Error(c, auth.ErrUnauthorized)
			return
		}
		filter.LandlordID = caller.ID
		filter.IncludeInactive = true
	}

	props, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.MapPage(props, NewPropertyResponse, req.Page, req.PageSize, total))
}

func (h *PropertyHandler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid property id", err)
		return
	}

	p, err := h.service.GetVisible(c.Request.Context(), req.ID, auth.GetIdentity(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPropertyResponse(p))
}

// Create publishes a listing owned by the caller.
// Access Control: landlords and admins.
func (h *PropertyHandler) Create(c *gin.Context) {
	var body CreatePropertyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), *auth.GetIdentity(c), property.CreatePropertyRequest{
		Title:         body.Title,
		Description:   body.Description,
		Address:       body.Address,
		City:          body.City,
		Country:       body.Country,
		PricePerNight: body.PricePerNight,
		Bedrooms:      body.Bedrooms,
		Bathrooms:     body.Bathrooms,
		MaxGuests:     body.MaxGuests,
		Amenities:     body.Amenities,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPropertyResponse(p))
}

// Update modifies a listing.
// Access Control: owning landlord or admin.
func (h *PropertyHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property id", err)
		return
	}

	var body UpdatePropertyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), uri.ID, *auth.GetIdentity(c), property.UpdatePropertyRequest{
		Title:         body.Title,
		Description:   body.Description,
		Address:       body.Address,
		City:          body.City,
		Country:       body.Country,
		PricePerNight: body.PricePerNight,
		Bedrooms:      body.Bedrooms,
		Bathrooms:     body.Bathrooms,
		MaxGuests:     body.MaxGuests,
		Amenities:     body.Amenities,
		IsActive:      body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPropertyResponse(p))
}

// Delete deactivates a listing.
// Access Control: owning landlord or admin.
func (h *PropertyHandler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID, *auth.GetIdentity(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage attaches a photo to a listing.
// Access Control: owning landlord or admin.
func (h *PropertyHandler) UploadImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property id", err)
		return
	}

	if _, err := h.service.GetManaged(c.Request.Context(), uri.ID, *auth.GetIdentity(c)); err != nil {
		response.Error(c, err)
		return
	}

	h.fileHandler.HandleFileUpload(c, filehttp.FileUploadConfig{
		MaxSizeBytes: maxImageBytes,
		AllowedTypes: []string{"image/jpeg", "image/png"},
		ResizeImage:  true,
		AfterUpload: func(ctx context.Context, fileID string) error {
			return h.service.AddImage(ctx, uri.ID, fileID)
		},
	})
}

// RemoveImage detaches a photo from a listing and deletes the file.
// Access Control: owning landlord or admin.
func (h *PropertyHandler) RemoveImage(c *gin.Context) {
	var uri ImageURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	ctx := c.Request.Context()
	if err := h.service.RemoveImage(ctx, uri.ID, *auth.GetIdentity(c), uri.FileID); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.fileService.Delete(ctx, uri.FileID); err != nil {
		slog.WarnContext(ctx, "failed to delete detached property image", "file_id", uri.FileID, "error", err)
	}

	c.Status(http.StatusNoContent)
}
