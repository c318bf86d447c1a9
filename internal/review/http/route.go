package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// Reviews are nested under their property.
	g.GET("/properties/:id/reviews", h.List)
	g.POST("/properties/:id/reviews", authMiddleware, h.Create)

	g.DELETE("/reviews/:id", authMiddleware, h.Delete)
}
