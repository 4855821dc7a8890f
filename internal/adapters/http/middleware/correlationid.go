package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/quotify-desktop/quotify/internal/platform/logging"
)

const (
	// HeaderCorrelationID is the header name for correlation ID. Unlike
	// the per-request ID, a correlation ID follows a whole business
	// transaction across services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin context key for the
	// correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID returns middleware that propagates the X-Correlation-ID
// header, generating one when this service is the transaction origin.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName:      HeaderCorrelationID,
		contextKey:      ContextKeyCorrelationID,
		storeInContext:  ContextWithCorrelationID,
		contextEnricher: logging.WithCorrelationID,
	})
}

// GetCorrelationID extracts the correlation ID from the gin.Context.
// Returns empty string if not set.
func GetCorrelationID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyCorrelationID)
}
