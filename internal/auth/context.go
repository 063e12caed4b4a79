package auth

import "github.com/gin-gonic/gin"

const (
	ctxKeyUserID   = "userID"
	ctxKeyUserRole = "userRole"
)

// SetIdentity stores the authenticated caller's identity in the Gin context.
func SetIdentity(c *gin.Context, userID, role string) {
	c.Set(ctxKeyUserID, userID)
	c.Set(ctxKeyUserRole, role)
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserRole returns the authenticated user's role or empty string.
func GetUserRole(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserRole); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
