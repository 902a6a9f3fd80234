package tenant

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ctxKey struct{}

// HeaderName carries the tenant id on every request. There is no default
// tenant: requests without the header are rejected before reaching a handler.
const HeaderName = "X-Tenant-ID"

// WithID returns a context carrying the tenant id.
func WithID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, tenantID)
}

// FromContext returns the tenant id set by the middleware, or "" if absent.
func FromContext(ctx context.Context) string {
	if val, ok := ctx.Value(ctxKey{}).(string); ok {
		return val
	}
	return ""
}

// Middleware extracts the mandatory tenant header and threads it through the
// request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderName)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing " + HeaderName + " header",
			})
			return
		}
		c.Request = c.Request.WithContext(WithID(c.Request.Context(), id))
		c.Next()
	}
}
