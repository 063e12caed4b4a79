package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("/my", h.ListMine)
		group.PATCH("/:id", h.Update)
		group.POST("/:id/status", h.Transition)
		// Cancellation is a soft state transition, not a row delete.
		group.DELETE("/:id", h.Cancel)
	}
}
