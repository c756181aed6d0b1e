package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context keys set by the auth middleware.
const (
	UserKey          = "userID"
	EmailKey         = "email"
	EmailVerifiedKey = "emailVerified"
)

// AuthMiddleware validates the bearer token and exposes the caller's
// identity on the context. The uid is used for logging and ownership tagging
// only, never for authorization decisions.
func AuthMiddleware(secret string) gin.HandlerFunc {
	secretKey := []byte(strings.TrimSpace(secret))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := parseAndValidateToken(tokenStr, secretKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		uid, _ := claims["sub"].(string)
		if uid == "" {
			uid, _ = claims["uid"].(string)
		}
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		email, _ := claims["email"].(string)
		emailVerified, _ := claims["email_verified"].(bool)

		c.Set(UserKey, uid)
		c.Set(EmailKey, email)
		c.Set(EmailVerifiedKey, emailVerified)
		c.Next()
	}
}

func parseAndValidateToken(tokenStr string, secretKey []byte) (jwt.MapClaims, error) {
	if len(secretKey) == 0 {
		return nil, fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// GetUserID returns the authenticated user id from the context.
func GetUserID(c *gin.Context) string {
	if val, exists := c.Get(UserKey); exists {
		return val.(string)
	}
	return ""
}
