package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"tunex/internal/config"
)

// SessionCookie carries the signed token for the lifetime of the browser
// session.
const SessionCookie = "tunex_session"

const identityKey = "identity"

// Identity is the per-request authentication context resolved from the
// session token: who is calling and which single role they activated at
// login.
type Identity struct {
	UserID   uint
	Username string
	Role     string
}

// CurrentIdentity returns the identity set by AuthRequired or OptionalAuth.
func CurrentIdentity(c *gin.Context) (*Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*Identity)
	return identity, ok
}

// AuthRequired resolves the session token into an Identity on the context.
// Requests without a valid token are redirected to the login page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolveIdentity(c)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth resolves the identity when a valid token is present and
// passes the request through either way.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := resolveIdentity(c); err == nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// resolveIdentity accepts the token from the session cookie or, for API
// clients, from an Authorization bearer header.
func resolveIdentity(c *gin.Context) (*Identity, error) {
	tokenString, err := c.Cookie(SessionCookie)
	if err != nil || tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return nil, jwt.ErrTokenMalformed
		}
		tokenString = parts[1]
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		if config.GlobalConfig.JWTSecret == "" {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(config.GlobalConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	username, _ := claims["username"].(string)
	role, ok := claims["role"].(string)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return &Identity{
		UserID:   uint(userID),
		Username: username,
		Role:     role,
	}, nil
}
