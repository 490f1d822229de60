package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodconnect/internal/managers"
	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

// RequireOperation lets the request through only if the principal's role may perform op.
// It must run after the JWT middleware.
func RequireOperation(op managers.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := managers.PrincipalFromContext(c)
		if err := managers.Authorize(principal, op); err != nil {
			if errors.Is(err, managers.ErrUnauthenticated) {
				utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, err)
			} else {
				utils.WriteAndLogError(c, schemas.Forbidden, http.StatusForbidden,
					errors.New(string(principal.Role)+" may not "+op.String()))
			}
			c.Abort()
			return
		}
		c.Next()
	}
}
