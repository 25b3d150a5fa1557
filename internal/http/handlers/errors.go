package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/adminconsole/domain"
)

// errorResponse maps a session or resource error onto a status code and user message
func errorResponse(err error) (int, string) {
	var authErr *domain.AuthError
	var resErr *domain.ResourceError

	switch {
	case errors.As(err, &authErr):
		if authErr.Status == 0 {
			return http.StatusBadGateway, authErr.Message
		}
		return authErr.Status, authErr.Message
	case errors.As(err, &resErr):
		return resErr.Status, resErr.Message
	case errors.Is(err, domain.ErrSessionInitializing), errors.Is(err, domain.ErrSessionClosed):
		return http.StatusServiceUnavailable, "Session is not ready"
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "Not signed in"
	case errors.Is(err, domain.ErrAlreadyAuthenticated):
		return http.StatusConflict, "Already signed in"
	case errors.Is(err, domain.ErrNoPendingOTP):
		return http.StatusConflict, "No OTP verification is pending"
	case errors.Is(err, domain.ErrDecode), errors.Is(err, domain.ErrTokenExpired):
		return http.StatusBadGateway, domain.GenericAuthMessage
	case errors.Is(err, domain.ErrUnknownResource):
		return http.StatusNotFound, "Unknown resource"
	case errors.Is(err, domain.ErrUnknownBulkOp):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusBadGateway, "Backend unavailable"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

func writeError(c *gin.Context, err error) {
	status, message := errorResponse(err)
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}
	c.JSON(status, gin.H{"error": message})
}
