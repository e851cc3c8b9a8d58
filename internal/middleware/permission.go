package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/utils"
)

// excludedPrefixes are the first path segments that bypass the
// permission guard entirely. Everything else requires a valid bearer
// token and an explicit grant.
var excludedPrefixes = map[string]struct{}{
	"auth":   {},
	"health": {},
	"api":    {},
}

// ParseRoutePermission maps a request path onto the (module,
// permission) pair its grant is keyed by: the first segment names the
// module, the second the action. Paths with fewer than two segments
// cannot be resolved and report ok=false.
func ParseRoutePermission(path string) (moduleSlug, permissionSlug string, ok bool) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "", "", false
	}
	segments := strings.Split(trimmed, "/")
	if len(segments) < 2 {
		return "", "", false
	}
	return segments[0], segments[1], true
}

// IsExcludedRoute reports whether the path bypasses the guard.
func IsExcludedRoute(path string) bool {
	trimmed := strings.Trim(path, "/")
	first, _, _ := strings.Cut(trimmed, "/")
	_, excluded := excludedPrefixes[first]
	return excluded
}

// PermissionGuard authenticates the bearer token, resolves the caller's
// role and enforces the route's permission grant. Every failure path
// denies: a request only proceeds once token, user and grant have all
// been positively established.
func PermissionGuard(jwtSecret string, authSvc portssvc.AuthSvcFacade, permSvc portssvc.PermissionSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsExcludedRoute(c.Request.URL.Path) {
			c.Next()
			return
		}

		logger := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(token, jwtSecret)
		if err != nil {
			logger.Warn("Token rejected", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := authSvc.ValidateToken(c.Request.Context(), token, claims.Subject)
		if err != nil {
			logger.Warn("Token validation failed", "user_id", claims.Subject)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		moduleSlug, permissionSlug, ok := ParseRoutePermission(c.Request.URL.Path)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		if !permSvc.CheckPermission(c.Request.Context(), user.RoleID, moduleSlug, permissionSlug) {
			logger.Warn("Permission denied",
				"user_id", user.UserID, "role_id", user.RoleID,
				"module", moduleSlug, "permission", permissionSlug)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		setAuthenticatedUser(c, user)
		c.Next()
	}
}
