package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup and passed down.
type Config struct {
	Port string

	DBDriver       string // "postgres" or "sqlite"
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBTimeZone     string
	SQLitePath     string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret string

	AllowedOrigins  string
	BodyLimitBytes  int
	RateLimitMax    int
	RateLimitWindow time.Duration

	RedisAddress string
	LockTTL      time.Duration

	LogLevel    string
	PhoneRegion string
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()

	bodyLimit := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimit <= 0 {
		bodyLimit = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	// Prefer JWT_SECRET_KEY, fall back to JWT_SECRET.
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET_KEY"))
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	}

	return Config{
		Port:            envString("PORT", "8080"),
		DBDriver:        strings.ToLower(envString("DB_DRIVER", "postgres")),
		DBHost:          envString("DB_HOST", "db"),
		DBPort:          envInt("DB_PORT", 5432),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBTimeZone:      envString("DB_TIMEZONE", "UTC"),
		SQLitePath:      envString("SQLITE_PATH", "obras.db"),
		DBMaxOpenConns:  envInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  envInt("DB_MAX_IDLE_CONNS", 10),
		JWTSecret:       secret,
		AllowedOrigins:  envString("ALLOWED_ORIGINS", "*"),
		BodyLimitBytes:  bodyLimit,
		RateLimitMax:    envInt("RATE_LIMIT_MAX", 60),
		RateLimitWindow: time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		RedisAddress:    strings.TrimSpace(os.Getenv("REDIS_ADDRESS")),
		LockTTL:         time.Duration(envInt("LOCK_TTL_SECONDS", 10)) * time.Second,
		LogLevel:        envString("LOG_LEVEL", "info"),
		PhoneRegion:     strings.ToUpper(envString("PHONE_REGION", "AR")),
	}
}

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
