package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/adminconsole/domain"
)

// PolicyMW decides whether the signed-in role may use a screen
type PolicyMW struct {
	policies domain.PolicyService
	logger   *slog.Logger
}

// NewPolicyMW creates new screen policy middleware
func NewPolicyMW(policies domain.PolicyService, logger *slog.Logger) *PolicyMW {
	return &PolicyMW{policies: policies, logger: logger}
}

// Enforce returns the screen policy middleware. It must run after the route guard.
func (mw *PolicyMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User role not found in session"})
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method

		allowed, err := mw.policies.CheckPermission(role.(string), path, method)
		if err != nil {
			mw.logger.ErrorContext(c.Request.Context(), "screen policy check failed", "path", path, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			return
		}
		if !allowed {
			mw.logger.InfoContext(c.Request.Context(), "screen access denied",
				"role", role, "path", path, "method", method)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			return
		}

		c.Next()
	}
}
