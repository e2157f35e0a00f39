package identity

import (
	"context"
	"fmt"
	"time"

	"vidhub/pkg/errno"
	"vidhub/pkg/logger"
	"vidhub/pkg/utils"

	"go.uber.org/zap"
)

var (
	ErrMissingToken = errno.New(errno.ErrUnauthenticated, "缺少认证令牌")
	ErrInvalidToken = errno.New(errno.ErrUnauthenticated, "无效或过期的认证令牌")
	ErrRevokedToken = errno.New(errno.ErrUnauthenticated, "认证令牌已注销")
	ErrUserGone     = errno.New(errno.ErrUnauthenticated, "用户不存在")
)

type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

type RevocationList interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Session 一次成功认证的结果
type Session struct {
	Viewer    Viewer
	TokenID   string
	ExpiresAt time.Time
}

// Guard 把请求携带的令牌解析为 Viewer
type Guard struct {
	tokens  TokenParser
	revoked RevocationList
	users   UserChecker
}

// NewGuard revoked 可以为 nil，表示不做注销检查
func NewGuard(tokens TokenParser, revoked RevocationList, users UserChecker) *Guard {
	return &Guard{tokens: tokens, revoked: revoked, users: users}
}

// Resolve 校验令牌并确认用户仍然存在，任何失败都归为 ErrUnauthenticated
func (g *Guard) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := g.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if g.revoked != nil && claims.ID != "" {
		revoked, err := g.revoked.IsRevoked(ctx, claims.ID)
		switch {
		case err != nil:
			// 黑名单不可用时放行，只记录日志
			logger.Warn("Token revocation check failed", zap.Int64("user_id", claims.UserID), zap.Error(err))
		case revoked:
			return nil, ErrRevokedToken
		}
	}

	exists, err := g.users.Exists(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load token owner: %w", err)
	}
	if !exists {
		return nil, ErrUserGone
	}

	session := &Session{Viewer: Authenticated(claims.UserID), TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
