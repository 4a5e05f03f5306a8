package response

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/logger"
)

// Error response field names
const (
	FieldError   = "error"
	FieldMessage = "message"
	FieldCode    = "code"
)

// SSE event names
const (
	EventProgress = "progress"
	EventDone     = "done"
)

// WriteJSONResponse writes a JSON response with the given status code
func WriteJSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// WriteErrorResponse writes an error response in JSON format. err is logged
// but never sent to the client.
func WriteErrorResponse(c *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("API error",
			zap.String("message", message),
			zap.Error(err),
			zap.Int("status_code", statusCode))
	}

	c.AbortWithStatusJSON(statusCode, gin.H{
		FieldError:   true,
		FieldMessage: message,
		FieldCode:    statusCode,
	})
}

// StartEventStream sets the headers of a server-sent event response
func StartEventStream(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Status(200)
	c.Writer.Flush()
}

// WriteEvent sends one server-sent event and flushes it
func WriteEvent(c *gin.Context, event string, data interface{}) {
	c.SSEvent(event, data)
	c.Writer.Flush()
}
