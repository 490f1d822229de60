package mocks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"foodconnect/internal/managers"
	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

// MockJwtManager is a mock of the JWTManager.
// Its middleware accepts exactly one bearer token and stores the configured principal.
type MockJwtManager struct {
	mock.Mock
	Token     string
	Principal *managers.Principal
}

func (m *MockJwtManager) GenerateJWT(user *schemas.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockJwtManager) ValidateJWT(tokenString string) (*managers.Principal, error) {
	args := m.Called(tokenString)
	principal, _ := args.Get(0).(*managers.Principal)
	return principal, args.Error(1)
}

func (m *MockJwtManager) JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer "+m.Token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
			return
		}
		c.Set(utils.PrincipalKey.String(), m.Principal)
		c.Next()
	}
}
