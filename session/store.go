package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sgzs6721/mediflow-front/router"
	"go.uber.org/zap"
)

// 存储键,token不加前缀
const (
	KeyPrefix = "mediflow_"
	TokenKey  = "token"
	UserKey   = KeyPrefix + "user"
)

var ErrNoToken = errors.New("未登录")

// Profile 登录用户
type Profile struct {
	Username string      `json:"username"`
	RealName string      `json:"realName"`
	Role     router.Role `json:"role"`
}

// CurrentUserFetcher 从后端获取当前用户
type CurrentUserFetcher interface {
	CurrentUser(ctx context.Context) (*Profile, error)
}

// Store 会话 | 只有Login/Logout/登录过期会修改
type Store struct {
	storage Storage
	logger  *zap.Logger

	mu    sync.RWMutex
	token string
	user  *Profile
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{storage: storage, logger: zap.NewNop()}
	for _, fc := range opts {
		fc(s)
	}
	return s
}

// Restore 启动时从存储恢复会话,有用户无token时清除用户
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.storage.Get(ctx, TokenKey)
	if err != nil && !errors.Is(err, ErrMiss) {
		return fmt.Errorf("读取token失败: %w", err)
	}

	var user *Profile
	raw, err := s.storage.Get(ctx, UserKey)
	switch {
	case err == nil:
		user = &Profile{}
		if jsonErr := json.Unmarshal([]byte(raw), user); jsonErr != nil {
			s.logger.Warn("discard corrupted session user", zap.Error(jsonErr))
			user = nil
			_ = s.storage.Remove(ctx, UserKey)
		}
	case !errors.Is(err, ErrMiss):
		return fmt.Errorf("读取用户信息失败: %w", err)
	}

	if token == "" && user != nil {
		user = nil
		if err := s.storage.Remove(ctx, UserKey); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

// Login 保存token和用户信息
func (s *Store) Login(ctx context.Context, token string, profile Profile) error {
	if token == "" {
		return ErrNoToken
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("保存token失败: %w", err)
	}
	if err := s.storage.Set(ctx, UserKey, string(raw)); err != nil {
		return fmt.Errorf("保存用户信息失败: %w", err)
	}
	s.token = token
	s.user = &profile
	s.logger.Info("session login", zap.String("username", profile.Username), zap.String("role", string(profile.Role)))
	return nil
}

// Logout 清除本地会话
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil

	tokenErr := s.storage.Remove(ctx, TokenKey)
	userErr := s.storage.Remove(ctx, UserKey)
	return errors.Join(tokenErr, userErr)
}

// HandleAuthExpired 401时清除会话
func (s *Store) HandleAuthExpired(ctx context.Context) {
	if err := s.Logout(ctx); err != nil {
		s.logger.Warn("clear expired session failed", zap.Error(err))
	}
}

// Token 当前token
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser 最近一次已知的用户信息,未登录返回nil
func (s *Store) CurrentUser() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	p := *s.user
	return &p
}

// Role 当前角色,未登录为空
func (s *Store) Role() router.Role {
	if p := s.CurrentUser(); p != nil {
		return p.Role
	}
	return ""
}

// IsAuthenticated 有用户信息即视为已登录
func (s *Store) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// Revalidate 向后端重新获取用户信息
// 失败时只丢弃token,用户信息保留到显式登出
func (s *Store) Revalidate(ctx context.Context, fetcher CurrentUserFetcher) error {
	if s.Token() == "" {
		return ErrNoToken
	}

	profile, err := fetcher.CurrentUser(ctx)
	if err != nil {
		s.mu.Lock()
		s.token = ""
		removeErr := s.storage.Remove(ctx, TokenKey)
		s.mu.Unlock()
		if removeErr != nil {
			s.logger.Warn("remove token failed", zap.Error(removeErr))
		}
		return err
	}
	if profile == nil {
		return fmt.Errorf("获取用户信息为空")
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// 校验期间已登出则不再写回
	if s.token == "" {
		return ErrNoToken
	}
	if err := s.storage.Set(ctx, UserKey, string(raw)); err != nil {
		return err
	}
	p := *profile
	s.user = &p
	return nil
}

// TokenExpiresAt 读取token中的exp(不校验签名)
func (s *Store) TokenExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
