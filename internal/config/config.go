package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingJWTSecret 在未配置 JWT_SECRET 时返回，服务不会回退到内置密钥。
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	JWTSecret         string
	TokenTTL          time.Duration
	BcryptCost        int
	GinMode           string
	Environment       string
	LogLevel          string
	LogFormat         string
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	StaticDir         string
}

// IsDevelopment 表示是否需要在错误响应里附带详细信息。
func (c AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// Load 从环境变量（以及 CONFIG_FILE 指向的可选配置文件）读取应用配置。
// 除 JWT_SECRET 外都有默认值。
func Load() (AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("DATABASE_PATH", "dailydev.db")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")

	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	port := strings.TrimSpace(v.GetString("PORT"))
	listenAddr := strings.TrimSpace(v.GetString("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	secret := strings.TrimSpace(v.GetString("JWT_SECRET"))
	if secret == "" {
		return AppConfig{}, ErrMissingJWTSecret
	}

	tokenTTL, err := time.ParseDuration(strings.TrimSpace(v.GetString("TOKEN_TTL")))
	if err != nil || tokenTTL <= 0 {
		return AppConfig{}, fmt.Errorf("invalid TOKEN_TTL %q", v.GetString("TOKEN_TTL"))
	}

	window, err := time.ParseDuration(strings.TrimSpace(v.GetString("RATE_LIMIT_WINDOW")))
	if err != nil || window <= 0 {
		return AppConfig{}, fmt.Errorf("invalid RATE_LIMIT_WINDOW %q", v.GetString("RATE_LIMIT_WINDOW"))
	}

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      strings.TrimSpace(v.GetString("DATABASE_PATH")),
		JWTSecret:         secret,
		TokenTTL:          tokenTTL,
		BcryptCost:        v.GetInt("BCRYPT_COST"),
		GinMode:           strings.TrimSpace(v.GetString("GIN_MODE")),
		Environment:       strings.TrimSpace(v.GetString("APP_ENV")),
		LogLevel:          strings.TrimSpace(v.GetString("LOG_LEVEL")),
		LogFormat:         strings.TrimSpace(v.GetString("LOG_FORMAT")),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:   window,
		StaticDir:         strings.TrimSpace(v.GetString("STATIC_DIR")),
	}, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		items = append(items, trimmed)
	}
	return items
}
