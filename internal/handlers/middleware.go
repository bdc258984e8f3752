package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxSubjectKey = "subject"

// authMiddleware requires a bearer token when a passphrase is configured.
// Browsers cannot set headers on a websocket upgrade, so ?token= is also
// accepted.
func (h *Handler) authMiddleware(c *gin.Context) {
	auth := h.services.Authorization
	if auth == nil || !auth.Enabled() {
		c.Next()
		return
	}

	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}
		token = parts[1]
	}

	subject, err := auth.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(ctxSubjectKey, subject)
	c.Next()
}
