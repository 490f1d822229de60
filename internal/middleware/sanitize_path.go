package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

var pathPolicy = bluemonday.StrictPolicy()

// SanitizePath strips markup from the request path before routing.
func SanitizePath() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.URL.Path = pathPolicy.Sanitize(c.Request.URL.Path)
		c.Next()
	}
}
