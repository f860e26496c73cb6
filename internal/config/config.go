package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything resolved from the environment at process start.
// Nothing below this layer reads env vars; values are injected explicitly.
type Config struct {
	HTTPAddr  string
	OxiDBHost string
	OxiDBPort int
	PoolSize  int
	JWTSecret string
	AdminUser string
	AdminPass string
	GelfAddr  string
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		HTTPAddr:  ":" + getEnv("PORT", "8080"),
		OxiDBHost: getEnv("OXIDB_HOST", "127.0.0.1"),
		OxiDBPort: getEnvInt("OXIDB_PORT", 4444),
		PoolSize:  getEnvInt("HI_POOL_SIZE", 3),
		JWTSecret: getEnv("JWT_SECRET", "health-index-dev-secret-change-me"),
		AdminUser: getEnv("ADMIN_USER", "admin"),
		AdminPass: getEnv("ADMIN_PASS", "securepassword123"),
		GelfAddr:  getEnv("GELF_ADDR", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}
