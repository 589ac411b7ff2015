package handlers

import (
	"log"
	"net/http"
	"time"

	"todos-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Revoker records a token ID as unusable until the token's own expiry.
type Revoker interface {
	Revoke(tokenID string, expiresAt time.Time) error
}

type LogoutHandler struct {
	revoker Revoker
}

func NewLogoutHandler(revoker Revoker) *LogoutHandler {
	return &LogoutHandler{revoker: revoker}
}

// Logout revokes the access token the request authenticated with. Logout is
// idempotent from the client's view: revocation failures are logged but still
// answered with success, since the token will expire on its own anyway.
func (h *LogoutHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentTokenClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	if h.revoker != nil && claims.TokenID != "" {
		if err := h.revoker.Revoke(claims.TokenID, claims.ExpiresAt); err != nil {
			log.Printf("token revocation failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
