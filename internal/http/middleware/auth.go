package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"homeward_notifications/internal/http/dto"
	"homeward_notifications/internal/http/resp"
)

// Identity is the resolved caller, constructed once at the boundary.
// Handlers take the user id from here and never from request params.
type Identity struct {
	UserID string
	Email  string
}

const identityKey = "identity"

type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// GenerateToken signs a token carrying the identity claims. The
// marketplace gateway issues these after login; tests use it to mint
// caller identities.
func GenerateToken(secret, userID, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "homeward-gateway",
		},
		UserID: userID,
		Email:  email,
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if header == "" || !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    resp.CodeUnauthorized,
				Message: "bearer token required",
			})
			return
		}

		parsed := &claims{}
		token, err := jwt.ParseWithClaims(tokenString, parsed, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || parsed.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    resp.CodeUnauthorized,
				Message: "invalid token",
			})
			return
		}

		c.Set(identityKey, Identity{UserID: parsed.UserID, Email: parsed.Email})
		c.Next()
	}
}

// WithIdentity injects a fixed identity. Test double for JWTAuth.
func WithIdentity(identity Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, identity)
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}
