package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// callerIDKey is the key used to store the authenticated caller's ID.
// The caller is the collaborator service named in the token subject.
const callerIDKey = contextKey("callerID")

// GetCallerIDFromContext retrieves the authenticated caller ID from the Gin context.
// It returns the caller ID and a boolean indicating if it was found.
func GetCallerIDFromContext(c *gin.Context) (string, bool) {
	if callerIDVal, exists := c.Get(string(callerIDKey)); exists {
		callerID, ok := callerIDVal.(string)
		return callerID, ok
	}
	// check in the request context as well
	return GetCallerIDFromCtx(c.Request.Context())
}

// GetCallerIDFromCtx retrieves the authenticated caller ID from a standard context.
func GetCallerIDFromCtx(ctx context.Context) (string, bool) {
	callerID, ok := ctx.Value(callerIDKey).(string)
	return callerID, ok && callerID != ""
}

// WithCallerID returns a copy of ctx carrying the caller ID.
func WithCallerID(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, callerIDKey, callerID)
}
