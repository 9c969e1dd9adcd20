package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is the iss claim written by GenerateJWT.
const tokenIssuer = "board-auth"

// Context keys set by Authenticate.
const (
	contextKeyEmail = "email"
	contextKeyName  = "name"
)

// JWTClaims is the payload of a board access token.
type JWTClaims struct {
	jwt.RegisteredClaims
	// Email is the account email. It identifies the principal.
	Email string `json:"email"`
	// Name is the display name used as the post writer name.
	Name string `json:"name"`
}

// Identity is the authenticated caller resolved from a token.
type Identity struct {
	Email string
	Name  string
}

// GenerateJWT signs an HS256 token for the given account, valid for 24 hours.
func GenerateJWT(secret, email, name string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
		Email: email,
		Name:  name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate returns middleware that resolves a bearer token into an
// Identity on the gin context.
//
// Requests without an Authorization header pass through anonymously so that
// public routes keep working; handlers decide whether an identity is needed.
// A header that is present but malformed or carries an invalid token is
// rejected with 401.
func Authenticate(secret string) gin.HandlerFunc {
	keyFunc := func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "malformed bearer token",
			})
			return
		}

		claims := &JWTClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, keyFunc)
		if err != nil || !token.Valid || claims.Email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid token",
			})
			return
		}

		c.Set(contextKeyEmail, claims.Email)
		c.Set(contextKeyName, claims.Name)
		c.Next()
	}
}

// GetIdentity returns the identity set by Authenticate, if any.
func GetIdentity(c *gin.Context) (Identity, bool) {
	email := c.GetString(contextKeyEmail)
	if email == "" {
		return Identity{}, false
	}
	return Identity{Email: email, Name: c.GetString(contextKeyName)}, true
}
