package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 会话存储类型
const (
	SessionStoreFile   = "file"
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	APIBaseURL     string        `mapstructure:"MEDIFLOW_API_BASE_URL"`
	RequestTimeout time.Duration `mapstructure:"MEDIFLOW_REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"MEDIFLOW_LOG_LEVEL"`
	LogFormat      string        `mapstructure:"MEDIFLOW_LOG_FORMAT"`

	SessionStore  string `mapstructure:"MEDIFLOW_SESSION_STORE"`
	SessionFile   string `mapstructure:"MEDIFLOW_SESSION_FILE"`
	RedisAddr     string `mapstructure:"MEDIFLOW_REDIS_ADDR"`
	RedisPassword string `mapstructure:"MEDIFLOW_REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"MEDIFLOW_REDIS_DB"`

	MockAddr           string        `mapstructure:"MEDIFLOW_MOCK_ADDR"`
	MockJWTSecret      string        `mapstructure:"MEDIFLOW_MOCK_JWT_SECRET"`
	MockTokenTTL       time.Duration `mapstructure:"MEDIFLOW_MOCK_TOKEN_TTL"`
	MockDSN            string        `mapstructure:"MEDIFLOW_MOCK_DSN"`
	MockRateLimitRPS   float64       `mapstructure:"MEDIFLOW_MOCK_RATE_LIMIT_RPS"`
	MockRateLimitBurst int           `mapstructure:"MEDIFLOW_MOCK_RATE_LIMIT_BURST"`
}

var keys = []string{
	"MEDIFLOW_API_BASE_URL",
	"MEDIFLOW_REQUEST_TIMEOUT",
	"MEDIFLOW_LOG_LEVEL",
	"MEDIFLOW_LOG_FORMAT",
	"MEDIFLOW_SESSION_STORE",
	"MEDIFLOW_SESSION_FILE",
	"MEDIFLOW_REDIS_ADDR",
	"MEDIFLOW_REDIS_PASSWORD",
	"MEDIFLOW_REDIS_DB",
	"MEDIFLOW_MOCK_ADDR",
	"MEDIFLOW_MOCK_JWT_SECRET",
	"MEDIFLOW_MOCK_TOKEN_TTL",
	"MEDIFLOW_MOCK_DSN",
	"MEDIFLOW_MOCK_RATE_LIMIT_RPS",
	"MEDIFLOW_MOCK_RATE_LIMIT_BURST",
}

// Load 读取配置: 默认值 < 配置文件 < 环境变量
// configFile为空时读取当前目录的.env,文件不存在不报错
func Load(configFile string) (*Config, error) {
	v := viper.New()
	if configFile == "" {
		configFile = ".env"
	}
	v.SetConfigFile(configFile)
	if filepath.Ext(configFile) == ".env" || filepath.Base(configFile) == ".env" {
		v.SetConfigType("env")
	}
	v.AutomaticEnv()

	v.SetDefault("MEDIFLOW_API_BASE_URL", "http://localhost:6066/mediflow/api")
	v.SetDefault("MEDIFLOW_REQUEST_TIMEOUT", "30s")
	v.SetDefault("MEDIFLOW_LOG_LEVEL", "warn")
	v.SetDefault("MEDIFLOW_LOG_FORMAT", "console")
	v.SetDefault("MEDIFLOW_SESSION_STORE", SessionStoreFile)
	v.SetDefault("MEDIFLOW_SESSION_FILE", "~/.mediflow/session.json")
	v.SetDefault("MEDIFLOW_REDIS_ADDR", "localhost:6379")
	v.SetDefault("MEDIFLOW_REDIS_DB", 0)
	v.SetDefault("MEDIFLOW_MOCK_ADDR", ":6066")
	v.SetDefault("MEDIFLOW_MOCK_JWT_SECRET", "mediflow-dev-secret")
	v.SetDefault("MEDIFLOW_MOCK_TOKEN_TTL", "24h")
	v.SetDefault("MEDIFLOW_MOCK_RATE_LIMIT_RPS", 50)
	v.SetDefault("MEDIFLOW_MOCK_RATE_LIMIT_BURST", 100)

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	// 配置文件可选
	if _, err := os.Stat(configFile); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件[%s]失败: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.SessionFile = expandHome(cfg.SessionFile)
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("MEDIFLOW_API_BASE_URL[%s]不是合法的地址", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("MEDIFLOW_REQUEST_TIMEOUT必须大于0, got %s", c.RequestTimeout)
	}
	switch c.SessionStore {
	case SessionStoreFile:
		if c.SessionFile == "" {
			return fmt.Errorf("MEDIFLOW_SESSION_FILE is required when MEDIFLOW_SESSION_STORE is \"file\"")
		}
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("MEDIFLOW_REDIS_ADDR is required when MEDIFLOW_SESSION_STORE is \"redis\"")
		}
	default:
		return fmt.Errorf("MEDIFLOW_SESSION_STORE must be \"file\", \"memory\", or \"redis\", got %q", c.SessionStore)
	}
	return nil
}

// ValidateMock 启动模拟后端前的校验
func (c *Config) ValidateMock() error {
	if c.MockAddr == "" {
		return fmt.Errorf("MEDIFLOW_MOCK_ADDR is required")
	}
	if c.MockJWTSecret == "" {
		return fmt.Errorf("MEDIFLOW_MOCK_JWT_SECRET is required")
	}
	if c.MockTokenTTL <= 0 {
		return fmt.Errorf("MEDIFLOW_MOCK_TOKEN_TTL必须大于0, got %s", c.MockTokenTTL)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
