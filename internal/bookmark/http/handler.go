package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peerseeker/peerseeker-backend/internal/auth"
	"github.com/peerseeker/peerseeker-backend/internal/bookmark"
	"github.com/peerseeker/peerseeker-backend/internal/pkg/response"
	userHttp "github.com/peerseeker/peerseeker-backend/internal/user/http"
)

type Handler struct {
	service bookmark.Service
	logger  *zap.Logger
}

func NewHandler(service bookmark.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ToggleResponse reports the bookmark state after a toggle.
type ToggleResponse struct {
	Bookmarked bool   `json:"bookmarked"`
	Message    string `json:"message"`
}

// Toggle adds or removes a bookmark on the target user.
func (h *Handler) Toggle(c *gin.Context) {
	targetID := c.Param("userId")
	if _, err := uuid.Parse(targetID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	bookmarked, err := h.service.Toggle(c.Request.Context(), auth.GetUserID(c), targetID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	msg := "bookmark removed"
	if bookmarked {
		msg = "user bookmarked"
	}

	c.JSON(http.StatusOK, ToggleResponse{Bookmarked: bookmarked, Message: msg})
}

// List returns the caller's saved users.
func (h *Handler) List(c *gin.Context) {
	users, err := h.service.ListSaved(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	items := make([]userHttp.UserResponse, len(users))
	for i, u := range users {
		items[i] = userHttp.NewUserResponse(u)
	}

	c.JSON(http.StatusOK, items)
}
