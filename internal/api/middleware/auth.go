package middleware

import (
	"context"
	"errors"
	"strings"

	"vidhub/internal/api/response"
	"vidhub/internal/identity"
	"vidhub/pkg/errno"
	"vidhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ContextKeySession = "currentSession"

// SessionResolver 把 Bearer Token 解析为会话，identity.Guard 的抽象
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*identity.Session, error)
}

// AuthOptional 可选认证：没有令牌或令牌无效都按匿名访客处理，认证服务故障时返回 500
func AuthOptional(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		session, err := resolver.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(ContextKeySession, session)
		case errors.Is(err, errno.ErrUnauthenticated):
			logger.Debug("Optional auth fell back to anonymous", zap.String("reason", err.Error()))
		default:
			logger.Error("Resolve session failed", zap.Error(err))
			response.InternalError(c, "认证服务暂不可用")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthRequired 必须认证，请求必须携带有效 Token
func AuthRequired(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, identity.ErrMissingToken.Error())
			c.Abort()
			return
		}
		if !authenticate(c, resolver, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, resolver SessionResolver, token string) bool {
	session, err := resolver.Resolve(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, errno.ErrUnauthenticated) {
			response.Unauthorized(c, err.Error())
		} else {
			logger.Error("Resolve session failed", zap.Error(err))
			response.InternalError(c, "认证服务暂不可用")
		}
		c.Abort()
		return false
	}
	c.Set(ContextKeySession, session)
	return true
}

// CurrentSession 当前请求的会话，匿名请求返回 nil
func CurrentSession(c *gin.Context) *identity.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	session, _ := val.(*identity.Session)
	return session
}

// CurrentViewer 当前请求者，未认证时为匿名访客
func CurrentViewer(c *gin.Context) identity.Viewer {
	if session := CurrentSession(c); session != nil {
		return session.Viewer
	}
	return identity.Anonymous()
}

// extractToken 从 Authorization 头中提取 Bearer Token
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
