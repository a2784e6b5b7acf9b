package middleware

import (
	"strings"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/compliment-api/pkg/response"
	"github.com/d60-Lab/compliment-api/pkg/token"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
)

// Auth 校验 Authorization: Bearer <token>，通过后把用户 ID 写入上下文
func Auth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxEmail, claims.Email)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.Scope().SetUser(sentry.User{ID: claims.Subject, Email: claims.Email})
		}
		c.Next()
	}
}

// UserID 当前登录用户，未经过 Auth 时为空
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
