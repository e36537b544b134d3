package config

import (
	"os"
	"strconv"
	"time"
)

// Config 进程配置，启动时从环境变量读取一次，之后按值注入
type Config struct {
	Env         string
	Port        string
	DatabaseURL string

	JWTSecret    string
	JWTExpiresIn time.Duration

	TinifyAPIURL string
	TinifyAPIKey string

	CORSOrigin string

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Load reads the configuration from the environment with local-dev fallbacks
func Load() *Config {
	return &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8000"),
		// Fallback for local dev if not set
		DatabaseURL: getEnv("DATABASE_URL",
			"host=localhost user=postgres password=postgres dbname=polling port=5432 sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", "secret_key_change_me"),
		JWTExpiresIn:    getDuration("JWT_EXPIRES_IN", 24*time.Hour),
		TinifyAPIURL:    getEnv("TINYPNG_API_URL", "https://api.tinify.com/shrink"),
		TinifyAPIKey:    os.Getenv("TINYPNG_API_KEY"),
		CORSOrigin:      getEnv("CORS_ORIGIN", "http://localhost:5173"),
		RateLimitMax:    getInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", time.Hour),
	}
}

// IsDev 开发模式下错误响应带调用栈，日志同时打到终端
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
