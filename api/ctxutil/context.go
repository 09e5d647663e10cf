// Package ctxutil derives the context handed to application services.
package ctxutil

import (
	"context"

	"ordercore/api/response"
	"ordercore/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID returns the request context carrying the request id, even
// when the RequestID middleware was not installed on the route.
func WithRequestID(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if persistence.RequestIDFromContext(ctx) != "" {
		return ctx
	}
	return persistence.ContextWithRequestID(ctx, response.GetRequestID(c))
}
