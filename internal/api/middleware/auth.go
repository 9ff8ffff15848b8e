package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/inkwell/internal/auth"
	"github.com/d60-Lab/inkwell/pkg/response"
)

const (
	CtxUserID   = "userID"
	CtxUsername = "username"
)

// Auth 校验 Bearer token 并把 userID 写入上下文
func Auth(j auth.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearer(c)
		if !ok {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		claims, err := j.Verify(tok)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(CtxUserID, claims.UserID())
		c.Set(CtxUsername, claims.Username)
		c.Next()
	}
}

// OptionalAuth sets the user when a valid token is present and never rejects.
func OptionalAuth(j auth.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, ok := bearer(c); ok {
			if claims, err := j.Verify(tok); err == nil {
				c.Set(CtxUserID, claims.UserID())
				c.Set(CtxUsername, claims.Username)
			}
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user, or "" for anonymous requests.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

func bearer(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
