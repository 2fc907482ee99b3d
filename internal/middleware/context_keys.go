package middleware

import (
	"context"
	"slices"

	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated user's ID in the request context.
const userIDKey = contextKey("userID")

// rolesKey is the key used to store the authenticated user's roles.
const rolesKey = contextKey("roles")

// WithIdentity returns a copy of ctx carrying the authenticated user and roles.
func WithIdentity(ctx context.Context, userID string, roles []domain.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, rolesKey, roles)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetRolesFromContext retrieves the authenticated user's roles.
func GetRolesFromContext(c *gin.Context) []domain.Role {
	roles, _ := c.Request.Context().Value(rolesKey).([]domain.Role)
	return roles
}

// HasRole reports whether the authenticated user holds role.
func HasRole(c *gin.Context, role domain.Role) bool {
	return slices.Contains(GetRolesFromContext(c), role)
}
