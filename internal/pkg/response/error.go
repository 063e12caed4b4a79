package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peerseeker/peerseeker-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response.
// AppError values decide their own status code; anything else is treated as an
// internal failure, logged, and surfaced as a generic 500 without leaking details.
func Error(c *gin.Context, logger *zap.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	if logger != nil {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
