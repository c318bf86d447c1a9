package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *PropertyHandler, authMiddleware, optionalAuth gin.HandlerFunc) {
	group := g.Group("/properties")

	// === Public Routes ===
	group.GET("", optionalAuth, h.List)    // Browse listings
	group.GET("/:id", optionalAuth, h.Get) // Listing details

	// === Authenticated Routes ===
	group.POST("", authMiddleware, h.Create)
	group.PATCH("/:id", authMiddleware, h.Update)
	group.DELETE("/:id", authMiddleware, h.Delete)

	group.POST("/:id/images", authMiddleware, h.UploadImage)
	group.DELETE("/:id/images/:file_id", authMiddleware, h.RemoveImage)
}
