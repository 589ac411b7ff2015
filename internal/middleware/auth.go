package middleware

import (
	"log"
	"net/http"
	"strings"

	"todos-api/internal/models"
	"todos-api/internal/security"
	"todos-api/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	userKey   = "current_user"
	claimsKey = "token_claims"
)

// Blocklist answers whether a token ID has been revoked by logout.
type Blocklist interface {
	IsRevoked(tokenID string) (bool, error)
}

// RequireAuth resolves the bearer token on the request to a stored user and
// injects it into the context. Every validation failure maps to the same
// generic 401 so callers cannot tell which check rejected them.
func RequireAuth(db *gorm.DB, tokens *security.TokenService, users services.UserService, revoked Blocklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := tokens.Validate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if revoked != nil && claims.TokenID != "" {
			isRevoked, err := revoked.IsRevoked(claims.TokenID)
			if err != nil {
				// Revocation is best-effort: a signed unexpired token stays
				// usable while the blocklist store is unreachable.
				log.Printf("blocklist check failed: %v", err)
			} else if isRevoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				return
			}
		}

		user, err := users.GetByEmail(db, claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		c.Set(userKey, user)
		c.Set(claimsKey, claims)

		c.Next()
	}
}

// SetCurrentUser injects an authenticated user outside of RequireAuth.
// Handler tests use it in place of the real middleware.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
}

func SetCurrentTokenClaims(c *gin.Context, claims *security.TokenClaims) {
	c.Set(claimsKey, claims)
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func CurrentTokenClaims(c *gin.Context) (*security.TokenClaims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*security.TokenClaims)
	return claims, ok
}
