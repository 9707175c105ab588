package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/whipsplash/concierge-backend/pkg/jwt"
)

// GuestContextKey is the key used to store guest information in Gin context
const GuestContextKey = "guest"

// GuestContext represents the authenticated guest's information
type GuestContext struct {
	GuestID   uuid.UUID `json:"guest_id"`
	SessionID uuid.UUID `json:"session_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
}

// AuthMiddleware creates a middleware that validates guest session
// tokens. The token is read from the session cookie, with an
// Authorization bearer header accepted as a fallback.
func AuthMiddleware(jwtService *jwt.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(cookieName)
		if err != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = strings.TrimSpace(parts[1])
			}
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Missing access token",
			})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid or expired access token",
			})
			c.Abort()
			return
		}

		c.Set(GuestContextKey, GuestContext{
			GuestID:   claims.GuestID,
			SessionID: claims.SessionID,
			Email:     claims.Email,
			FullName:  claims.FullName,
		})

		c.Next()
	}
}

// GetGuestContext retrieves the authenticated guest from the Gin context
func GetGuestContext(c *gin.Context) (GuestContext, bool) {
	value, exists := c.Get(GuestContextKey)
	if !exists {
		return GuestContext{}, false
	}
	guest, ok := value.(GuestContext)
	return guest, ok
}
