package httpapi

import (
	"strings"
	"time"

	"github.com/avolkovs/talentdesk/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const (
	ctxAccountID = "accountID"
	ctxRole      = "accountRole"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// authRequired verifies the Bearer access token and stashes the account
// identity on the request context.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.respondUnauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(token, []byte(s.config.SecretKey))
		if err != nil {
			s.respondError(c, err)
			c.Abort()
			return
		}

		c.Set(ctxAccountID, claims.AccountID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}
