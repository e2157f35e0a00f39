package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidhub/internal/api/dto"
	"vidhub/internal/identity"
	"vidhub/internal/model"
	"vidhub/internal/repository"
	"vidhub/pkg/logger"
	"vidhub/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenRevoker 注销令牌的存储
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

type AuthService struct {
	users   repository.UserRepo
	tokens  *utils.TokenManager
	revoker TokenRevoker
}

// NewAuthService revoker 可以为 nil，此时 Signout 只是客户端丢弃令牌
func NewAuthService(users repository.UserRepo, tokens *utils.TokenManager, revoker TokenRevoker) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoker: revoker}
}

// GoogleLogin 以客户端 Google 登录得到的邮箱为身份，首次登录时自动建号
func (s *AuthService) GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.TokenData, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.register(ctx, email, req)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenData{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int(s.tokens.TTL().Seconds()),
		User:      *toUserInfo(user, true),
	}, nil
}

func (s *AuthService) register(ctx context.Context, email string, req *dto.GoogleLoginRequest) (*model.User, error) {
	user := &model.User{
		Username: strings.TrimSpace(req.Username),
		Email:    email,
		Avatar:   req.Avatar,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 同一邮箱并发首次登录，另一个请求已经建号
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.users.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info("User registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Me 当前登录用户
func (s *AuthService) Me(ctx context.Context, viewer identity.Viewer) (*dto.UserInfo, error) {
	userID, ok := viewer.UserID()
	if !ok {
		return nil, identity.ErrLoginRequired
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserInfo(user, true), nil
}

// Signout 注销当前令牌，直到其自然过期
func (s *AuthService) Signout(ctx context.Context, session *identity.Session) error {
	if s.revoker == nil || session == nil || session.TokenID == "" {
		return nil
	}
	return s.revoker.Revoke(ctx, session.TokenID, time.Until(session.ExpiresAt))
}

func toUserInfo(u *model.User, withEmail bool) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
	if withEmail {
		info.Email = u.Email
	}
	return info
}
