package service

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	userTokenIssuer        = "petshop"
	defaultUserTokenExpiry = 24 * time.Hour
)

var errUserTokenInvalid = errors.New("invalid token")

// UserAuthService 用户认证服务
// 说明：签发 HS256 令牌，账号状态以 Redis 鉴权快照为准，缓存不可用时回源数据库。
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{cfg: cfg, userRepo: userRepo}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// UserSession 登录成功后的会话
type UserSession struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *UserAuthService) secret() []byte {
	return []byte(s.cfg.UserJWT.SecretKey)
}

func (s *UserAuthService) tokenTTL() time.Duration {
	if hours := s.cfg.UserJWT.ExpireHours; hours > 0 {
		return time.Duration(hours) * time.Hour
	}
	return defaultUserTokenExpiry
}

func (s *UserAuthService) issueToken(user *models.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.tokenTTL())
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    userTokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}).SignedString(s.secret())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseUserJWT 解析并校验用户令牌
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	claims := &UserJWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret(), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(userTokenIssuer),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errUserTokenInvalid
	}
	return claims, nil
}

// Login 邮箱密码登录；未知邮箱与密码错误统一返回 ErrInvalidCredentials
func (s *UserAuthService) Login(ctx context.Context, email, password string) (*UserSession, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !strings.EqualFold(user.Status, constants.UserStatusActive) {
		return nil, ErrUserDisabled
	}

	token, expiresAt, err := s.issueToken(user, time.Now())
	if err != nil {
		return nil, err
	}
	s.storeAuthState(ctx, cache.BuildUserAuthState(user))
	return &UserSession{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// ResolveAuthState 读取用户鉴权快照，缓存未命中时回源数据库并回写
func (s *UserAuthService) ResolveAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error) {
	state, hit, err := cache.GetUserAuthState(ctx, userID)
	if err != nil {
		logger.Warnw("user_auth_state_read_failed", "user_id", userID, "error", err)
	}
	if hit && state != nil {
		return state, nil
	}
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	state = cache.BuildUserAuthState(user)
	s.storeAuthState(ctx, state)
	return state, nil
}

func (s *UserAuthService) storeAuthState(ctx context.Context, state *cache.UserAuthState) {
	if err := cache.SetUserAuthState(ctx, state); err != nil {
		logger.Warnw("user_auth_state_cache_failed", "user_id", state.UserID, "error", err)
	}
}

// GetUser 获取用户
func (s *UserAuthService) GetUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	switch {
	case err != nil:
		return nil, err
	case user == nil:
		return nil, ErrUserNotFound
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}
