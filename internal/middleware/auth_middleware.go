package middleware

import (
	"strings"

	"gotours/internal/models"
	"gotours/internal/services"
	"gotours/internal/utils"

	"github.com/gin-gonic/gin"
)

const userContextKey = "current_user"

// Protect rejects requests without a valid session. The token comes from
// the Authorization header or the session cookie.
func Protect(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			AbortWithError(c, utils.UnauthorizedError("You are not logged in! Please log in to get access."))
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the session when one is present but never rejects.
func OptionalAuth(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if user, err := authService.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(userContextKey, user)
			}
		}
		c.Next()
	}
}

// RestrictTo allows only the listed roles past. It must run after Protect.
func RestrictTo(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			AbortWithError(c, utils.UnauthorizedError("You are not logged in! Please log in to get access."))
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, utils.ForbiddenError("You do not have permission to perform this action"))
	}
}

// CurrentUser returns the authenticated user, or nil outside a session.
func CurrentUser(c *gin.Context) *models.User {
	if value, ok := c.Get(userContextKey); ok {
		if user, ok := value.(*models.User); ok {
			return user
		}
	}
	return nil
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(utils.SessionCookieName); err == nil && cookie != utils.LogoutCookieValue {
		return cookie
	}
	return ""
}
