package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

// ValidateAndSanitizeStruct binds the JSON body into a fresh T, strips markup from its strings
// and validates it. The result is stored under utils.SanitizedPayloadKey.
func ValidateAndSanitizeStruct[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		obj := new(T)
		if err := c.ShouldBindJSON(obj); err != nil {
			utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
			c.Abort()
			return
		}

		v := utils.GetValidator()
		v.SanitizeData(obj)

		if err := v.Validate.Struct(obj); err != nil {
			customErr := schemas.BadRequest
			var validationErrors validator.ValidationErrors
			if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
				customErr = customErr.WithField(validationErrors[0].Field())
			}
			utils.WriteAndLogError(c, customErr, http.StatusBadRequest, err)
			c.Abort()
			return
		}

		c.Set(utils.SanitizedPayloadKey.String(), obj)
		c.Next()
	}
}

// Payload returns the request body stored by ValidateAndSanitizeStruct.
func Payload[T any](c *gin.Context) (*T, bool) {
	value, ok := c.Get(utils.SanitizedPayloadKey.String())
	if !ok {
		return nil, false
	}
	obj, ok := value.(*T)
	return obj, ok
}
