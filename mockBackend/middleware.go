package mockBackend

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sgzs6721/mediflow-front/router"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	ctxUserId   = "userID"
	ctxUsername = "username"
	ctxRole     = "role"
)

// ---------- 令牌 ----------

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Generate 签发HS256令牌
func (t *tokenIssuer) Generate(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.Id,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      t.now().Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Validate 校验签名和有效期
func (t *tokenIssuer) Validate(encoded string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(encoded, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token invalid")
	}
	return claims, nil
}

// ---------- 密码 ----------

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(bytes), err
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ---------- 中间件 ----------

// authMiddleware 校验Bearer令牌
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			APIResponse(c, http.StatusUnauthorized, false, "未登录", nil)
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			APIResponse(c, http.StatusUnauthorized, false, "令牌格式错误", nil)
			c.Abort()
			return
		}

		claims, err := s.tokens.Validate(parts[1])
		if err != nil {
			APIResponse(c, http.StatusUnauthorized, false, "登录已过期，请重新登录", nil)
			c.Abort()
			return
		}

		var userID uint64
		if val, ok := claims["user_id"].(float64); ok {
			userID = uint64(val)
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)

		c.Set(ctxUserId, userID)
		c.Set(ctxUsername, username)
		c.Set(ctxRole, router.Role(role))
		c.Next()
	}
}

// requireRoles 角色校验
func requireRoles(roles ...router.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := currentRole(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		APIResponse(c, http.StatusForbidden, false, "没有权限访问此资源", nil)
		c.Abort()
	}
}

func currentUserId(c *gin.Context) uint64 {
	return c.GetUint64(ctxUserId)
}

func currentRole(c *gin.Context) router.Role {
	val, _ := c.Get(ctxRole)
	role, _ := val.(router.Role)
	return role
}

// serialize 写请求串行执行,并发的状态变更由后端裁决
func serialize() gin.HandlerFunc {
	var mu sync.Mutex
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		mu.Lock()
		defer mu.Unlock()
		c.Next()
	}
}

// ---------- 限流 ----------

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter 按IP限流
type ipRateLimiter struct {
	mu  sync.Mutex
	ips map[string]*visitor
	r   rate.Limit
	b   int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{ips: make(map[string]*visitor), r: r, b: b}
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := time.Now()
	// 顺带清理3分钟未访问的IP
	for key, v := range i.ips {
		if now.Sub(v.lastSeen) > 3*time.Minute {
			delete(i.ips, key)
		}
	}

	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func rateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := newIPRateLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.getLimiter(c.ClientIP()).Allow() {
			APIResponse(c, http.StatusTooManyRequests, false, "请求过于频繁，请稍后再试", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
