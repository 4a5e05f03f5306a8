package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/logger"
)

// ErrorHandler turns errors attached with c.Error into a generic response
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		logger.FromContext(c.Request.Context()).Error("request error",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err.Err),
			zap.Int("status", c.Writer.Status()),
		)

		// Don't override response if already written
		if c.Writer.Written() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{
			"error":      true,
			"message":    "Internal Server Error",
			"code":       status,
			"request_id": c.GetString(RequestIDKey),
		})
	}
}

// Recovery handles panics and recovers gracefully
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.FromContext(c.Request.Context()).Error("panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Stack("stack"),
		)

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":      true,
			"message":    "Internal Server Error",
			"code":       http.StatusInternalServerError,
			"request_id": c.GetString(RequestIDKey),
		})
	})
}
