package middleware

import (
	"errors"
	"strings"

	"story-cms/helper"
	"story-cms/models"
	"story-cms/services"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// AuthMiddleware resolves the bearer token into a session and stores it on
// both the gin context and the request context.
func AuthMiddleware(authService services.AuthService, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			h.SendUnauthorizedError(c, "Authorization header required", h.EmptyJsonMap())
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			h.SendUnauthorizedError(c, "Bearer token required", h.EmptyJsonMap())
			c.Abort()
			return
		}

		session, err := authService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			var unauthorized *models.ErrorUnauthorized
			if errors.As(err, &unauthorized) {
				h.SendUnauthorizedError(c, unauthorized.Message, h.EmptyJsonMap())
			} else {
				h.SendAppError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(sessionContextKey, session)
		c.Request = c.Request.WithContext(models.WithSession(c.Request.Context(), session))

		c.Next()
	}
}

// SessionFromContext returns the session set by AuthMiddleware, or nil.
func SessionFromContext(c *gin.Context) *models.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return models.SessionFromContext(c.Request.Context())
}

// RequireRole must run after AuthMiddleware.
func RequireRole(h *helper.HTTPHelper, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFromContext(c)
		if session == nil {
			h.SendUnauthorizedError(c, "Authentication required", h.EmptyJsonMap())
			c.Abort()
			return
		}

		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}

		h.SendForbiddenError(c, "Insufficient permissions", h.EmptyJsonMap())
		c.Abort()
	}
}
