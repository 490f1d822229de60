package managers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

const (
	tokenIssuer = "foodconnect"
	// legacyTokenHeader is the header the web client sends the token in.
	legacyTokenHeader = "x-auth-token"
)

// JWTMgr issues and verifies session tokens.
type JWTMgr interface {
	GenerateJWT(user *schemas.User) (string, error)
	ValidateJWT(tokenString string) (*Principal, error)
	JWTMiddleware() gin.HandlerFunc
}

// Claims is the payload of a session token. The subject holds the user id.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// JWTManager signs tokens with HMAC-SHA256.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a token service for the given secret. A zero ttl issues tokens without expiry.
func NewJWTManager(secret []byte, ttl time.Duration) (JWTMgr, error) {
	log.Info("Initializing JWT manager")
	if len(secret) == 0 {
		return nil, errors.Join(ErrConfiguration, errors.New("JWT_SECRET must be set"))
	}
	return &JWTManager{secret: secret, ttl: ttl, now: time.Now}, nil
}

// GenerateJWT issues a token for the user.
func (jm *JWTManager) GenerateJWT(user *schemas.User) (string, error) {
	now := jm.now()
	claims := Claims{
		Role: string(user.Role),
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenIssuer,
			Subject:  user.ID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if jm.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(jm.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jm.secret)
}

// ValidateJWT verifies the signature and claims and returns the caller. Every failure is ErrInvalidCredential.
func (jm *JWTManager) ValidateJWT(tokenString string) (*Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(jm.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidCredential, err)
	}
	if !token.Valid {
		return nil, ErrInvalidCredential
	}

	userId, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Join(ErrInvalidCredential, err)
	}
	role, ok := schemas.ParseRole(claims.Role)
	if !ok {
		return nil, errors.Join(ErrInvalidCredential, errors.New("unknown role "+claims.Role))
	}

	return &Principal{UserID: userId, Role: role, Name: claims.Name}, nil
}

// JWTMiddleware resolves the principal from the Authorization bearer header or the x-auth-token header
// and stores it in the gin context under utils.PrincipalKey.
func (jm *JWTManager) JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c.Request)
		if tokenString == "" {
			utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, ErrUnauthenticated)
			c.Abort()
			return
		}

		principal, err := jm.ValidateJWT(tokenString)
		if err != nil {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		c.Set(utils.PrincipalKey.String(), principal)
		c.Next()
	}
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		// A present but unusable Authorization header still counts as a presented credential.
		return header
	}
	return strings.TrimSpace(r.Header.Get(legacyTokenHeader))
}

// PrincipalFromContext returns the principal set by JWTMiddleware.
func PrincipalFromContext(c *gin.Context) (*Principal, bool) {
	value, ok := c.Get(utils.PrincipalKey.String())
	if !ok {
		return nil, false
	}
	principal, ok := value.(*Principal)
	return principal, ok
}
