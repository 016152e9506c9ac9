package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	config "github.com/lemawe69/milky-shaky-backend/configs"
	"github.com/lemawe69/milky-shaky-backend/internal/db"
	"github.com/lemawe69/milky-shaky-backend/internal/models"
)

const userContextKey = "user"

// GenerateToken issues a signed bearer token for the given user ID. The
// identity provider in front of this service issues the same shape.
func GenerateToken(userID uint, ttl time.Duration) (string, error) {
	cfg := config.LoadAuthConfig()

	claims := jwt.MapClaims{
		"user_id": float64(userID),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func parseToken(tokenString string) (uint, error) {
	cfg := config.LoadAuthConfig()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, errors.New("invalid user_id claim")
	}

	return uint(userID), nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// RequireAuth validates the bearer token and injects *models.User into the
// context for handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is missing"})
			return
		}

		userID, err := parseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.DB.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		c.Set(userContextKey, &user)
		c.Next()
	}
}

// OptionalAuth injects the user when a valid token is present but lets
// anonymous callers through. Quote previews work either way.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		userID, err := parseToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		var user models.User
		if err := db.DB.First(&user, userID).Error; err == nil {
			c.Set(userContextKey, &user)
		}
		c.Next()
	}
}

// RequireManager must run after RequireAuth.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsManager() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
