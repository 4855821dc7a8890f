package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quotify-desktop/quotify/internal/adapters/http/dto"
	"github.com/quotify-desktop/quotify/internal/platform/logging"
)

const (
	// HeaderUserID carries the requesting user's identifier. The
	// desktop shell (or gateway) sets it on every API call.
	HeaderUserID = "X-User-ID"

	// ContextKeyUserID is the gin context key for the user ID.
	ContextKeyUserID = "user_id"
)

// RequireUser returns middleware that extracts the X-User-ID header.
// Requests without it are rejected with 401 before reaching any
// handler; every quote operation is scoped to a user and has no
// sensible anonymous behavior.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			dto.AbortWithErrorCode(c, dto.ErrorCodeUnauthorized, "X-User-ID header is required")
			return
		}

		c.Set(ContextKeyUserID, userID)

		ctx := ContextWithUserID(c.Request.Context(), userID)
		ctx = logging.WithUserID(ctx, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUserID extracts the user ID from the gin.Context. Returns empty
// string if not set.
func GetUserID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyUserID)
}
