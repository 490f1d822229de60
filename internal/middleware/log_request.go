package middleware

import (
	"github.com/gin-gonic/gin"

	"foodconnect/internal/utils"
)

func LogRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogMessageWithFields(c, "info", "Request received: "+c.Request.Method+" "+c.Request.URL.Path)
		c.Next()
	}
}
