package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/favorite"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/response"
)

type Handler struct {
	service favorite.Service
}

func NewHandler(service favorite.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListFavoritesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	list, total, err := h.service.List(c.Request.Context(), auth.GetUserID(c), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.MapPage(list, NewFavoriteResponse, req.Page, req.PageSize, total))
}

func (h *Handler) Add(c *gin.Context) {
	var body AddFavoriteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if err := h.service.Add(c.Request.Context(), auth.GetUserID(c), body.PropertyID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Remove(c *gin.Context) {
	var uri PropertyURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid property id", err)
		return
	}

	if err := h.service.Remove(c.Request.Context(), auth.GetUserID(c), uri.PropertyID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
