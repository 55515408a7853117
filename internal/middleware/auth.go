package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireBearer guards every /api/ route with a shared ingest token. Infra
// endpoints stay open. With an empty token every guarded request is refused.
func RequireBearer(token string, logger *zap.Logger) gin.HandlerFunc {
	want := []byte(strings.TrimSpace(token))
	if len(want) == 0 && logger != nil {
		logger.Warn("auth.ingest_token is empty; all /api requests will be rejected")
	}

	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if !strings.HasPrefix(p, "/api/") && p != "/api" {
			c.Next()
			return
		}
		auth := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "missing bearer token"})
			return
		}
		got := []byte(strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			if logger != nil {
				LoggerFromContext(c.Request.Context(), logger).Warn("rejected bearer token",
					zap.String("path", p),
					zap.String("client_ip", c.ClientIP()),
				)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "unauthorized"})
			return
		}
		c.Next()
	}
}
