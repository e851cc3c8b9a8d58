package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/freightdesk/backend/internal/core/domain"
)

// userIDKey is the key used to store the authenticated user's ID in the Gin context.
// Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// userKey is the key used to store the resolved user (with role).
const userKey = contextKey("user")

// setAuthenticatedUser stores the user id and resolved user on both the
// Gin context and the request context.
func setAuthenticatedUser(c *gin.Context, user *domain.User) {
	c.Set(string(userIDKey), user.UserID)
	c.Set(string(userKey), user)

	ctx := context.WithValue(c.Request.Context(), userIDKey, user.UserID)
	ctx = context.WithValue(ctx, userKey, user)
	c.Request = c.Request.WithContext(ctx)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		fromReq := c.Request.Context().Value(userIDKey)
		if fromReq != nil {
			return fromReq.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		// This should not happen if the auth middleware sets it correctly
		return "", false
	}

	return userID, true
}

// GetUserFromContext retrieves the resolved user (with role) from the
// Gin context.
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	userVal, exists := c.Get(string(userKey))
	if !exists {
		if user, ok := c.Request.Context().Value(userKey).(*domain.User); ok {
			return user, true
		}
		return nil, false
	}

	user, ok := userVal.(*domain.User)
	if !ok {
		return nil, false
	}
	return user, true
}
