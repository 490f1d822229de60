package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodconnect/internal/managers"
	"foodconnect/internal/managers/mocks"
	"foodconnect/internal/schemas"
)

func newGuardedEngine(jwtMgr managers.JWTMgr, op managers.Operation) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/guarded/:id", jwtMgr.JWTMiddleware(), RequireOperation(op), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) schemas.CustomError {
	var body schemas.ErrorDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Error
}

func TestRequireOperation(t *testing.T) {
	testCases := []struct {
		name     string
		role     schemas.Role
		op       managers.Operation
		expected int
	}{
		{"VolunteerClaims", schemas.RoleVolunteer, managers.OpClaim, http.StatusOK},
		{"DonorClaims", schemas.RoleDonor, managers.OpClaim, http.StatusForbidden},
		{"DonorCreates", schemas.RoleDonor, managers.OpCreate, http.StatusOK},
		{"AdminCreates", schemas.RoleAdmin, managers.OpCreate, http.StatusForbidden},
		{"AdminReadsStats", schemas.RoleAdmin, managers.OpReadStats, http.StatusOK},
		{"VolunteerReadsStats", schemas.RoleVolunteer, managers.OpReadStats, http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			jwtMgr := &mocks.MockJwtManager{
				Token:     "token",
				Principal: &managers.Principal{UserID: uuid.New(), Role: tc.role},
			}
			engine := newGuardedEngine(jwtMgr, tc.op)

			req := httptest.NewRequest(http.MethodGet, "/guarded/1", nil)
			req.Header.Set("Authorization", "Bearer token")
			recorder := httptest.NewRecorder()
			engine.ServeHTTP(recorder, req)

			assert.Equal(t, tc.expected, recorder.Code)
			if tc.expected == http.StatusForbidden {
				assert.Equal(t, schemas.Forbidden.Code, decodeError(t, recorder).Code)
			}
		})
	}
}

func TestRequireOperationWithoutPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/guarded", RequireOperation(managers.OpClaim), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, schemas.Unauthorized.Code, decodeError(t, recorder).Code)
}
