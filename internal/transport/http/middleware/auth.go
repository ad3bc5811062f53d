package middleware

import (
	"net/http"
	"strings"

	"github.com/caxgpt/todo-api/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const errInvalidCredentials = "Invalid authentication credentials"

const userIDKey = "userID"

// Auth validates a Bearer token of kind access and stores the caller's
// user ID in the gin context. It does not re-check that the user still
// exists — a deleted user's token keeps resolving until it expires.
func Auth(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": errInvalidCredentials})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		claims, err := codec.Decode(rawToken, token.KindAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": errInvalidCredentials})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated caller's ID set by Auth. It is the
// zero UUID if Auth did not run on this route.
func UserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(uuid.UUID)
	return userID
}
