package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all user-related routes (including Auth and directories).
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware gin.HandlerFunc) {
	// Public Routes
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// Directories are public, like the rest of the marketplace browse surface.
	g.GET("/tutors", h.ListTutors)
	g.GET("/students", h.ListStudents)

	usersGroup := g.Group("/users")
	{
		usersGroup.GET("/:id", h.Get)
		usersGroup.GET("/:id/avatar", h.GetAvatar)
	}

	// Authenticated Routes
	me := g.Group("/me")
	me.Use(authMiddleware)
	{
		me.GET("", h.Me)
		me.PATCH("", h.UpdateMe)
		me.PUT("/avatar", h.UploadAvatar)
	}
}
