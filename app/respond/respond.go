// Package respond turns service errors into JSON error responses
package respond

import (
	"errors"
	"net/http"

	"bitwise74/portal-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func status(kind error) int {
	switch kind {
	case service.ErrValidation, service.ErrCodeMismatch:
		return http.StatusBadRequest
	case service.ErrConflict:
		return http.StatusConflict
	case service.ErrNotFound:
		return http.StatusNotFound
	case service.ErrTooManyAttempts:
		return http.StatusTooManyRequests
	case service.ErrUnauthorized:
		return http.StatusUnauthorized
	case service.ErrUnverified:
		return http.StatusForbidden
	}

	return http.StatusInternalServerError
}

// Error writes err to the client. Errors that aren't a *service.Error are
// logged with msg and answered with a generic 500
func Error(c *gin.Context, err error, msg string) {
	requestID := c.GetString("requestID")

	var se *service.Error
	if errors.As(err, &se) {
		c.AbortWithStatusJSON(status(se.Kind), gin.H{
			"error":     se.Msg,
			"requestID": requestID,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":     "Internal server error",
		"requestID": requestID,
	})

	zap.L().Error(msg, zap.Error(err), zap.String("requestID", requestID))
}

// BadRequest answers a body that couldn't be parsed
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":     msg,
		"requestID": c.GetString("requestID"),
	})
}
