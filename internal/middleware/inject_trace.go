package middleware

import (
	"github.com/gin-gonic/gin"

	"foodconnect/internal/utils"
)

// InjectTrace tags every request with a trace id and echoes it in the X-Trace-Id header.
func InjectTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := c.GetHeader("X-Trace-Id")
		if traceId == "" {
			traceId = utils.GenerateTraceId()
		}
		c.Set(utils.TraceIdKey.String(), traceId)
		c.Header("X-Trace-Id", traceId)
		c.Next()
	}
}
