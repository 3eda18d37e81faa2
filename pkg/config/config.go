// Package config loads application settings from the environment (and an
// optional .env file) into typed sections with defaults and validation.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Mail     MailConfig
	OAuth    OAuthConfig
	Log      LogConfig
	Seed     SeedConfig
}

type ServerConfig struct {
	Port        string
	FrontendURL string
	CORSOrigins []string
	BodyLimit   int // bytes
	RateRPS     float64
	RateBurst   int
}

type DatabaseConfig struct {
	URL          string
	MaxIdleConns int
	MaxOpenConns int
}

// RedisConfig selects the cache backend. An empty Addr means the in-process
// memory store is used.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// CacheConfig holds the page bounds used by range invalidation.
type CacheConfig struct {
	ReviewPagesBound    int
	AdminUserPagesBound int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type StorageConfig struct {
	Driver    string // local|r2
	LocalDir  string
	PublicURL string

	R2AccountID string
	R2AccessKey string
	R2SecretKey string
	R2Bucket    string
}

type MailConfig struct {
	ResendAPIKey string
	From         string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads .env (when present) and the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getenv("PORT", "3000"),
			FrontendURL: strings.TrimRight(getenv("FRONTEND_URL", "http://localhost:5173"), "/"),
			CORSOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
			BodyLimit:   getint("BODY_LIMIT", 64<<20),
			RateRPS:     getfloat("RATE_RPS", 20),
			RateBurst:   getint("RATE_BURST", 40),
		},
		Database: DatabaseConfig{
			URL:          getenv("DATABASE_URL", ""),
			MaxIdleConns: getint("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns: getint("DB_MAX_OPEN_CONNS", 100),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getint("REDIS_DB", 0),
			Prefix:   getenv("REDIS_PREFIX", "aqarat:"),
		},
		Cache: CacheConfig{
			ReviewPagesBound:    getint("CACHE_REVIEW_PAGES", 100),
			AdminUserPagesBound: getint("CACHE_ADMIN_USER_PAGES", 200),
		},
		JWT: JWTConfig{
			Secret: getenv("JWT_SECRET", ""),
			TTL:    getdur("JWT_TTL", 365*24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getenv("STORAGE_DRIVER", "local")),
			LocalDir:    getenv("STORAGE_LOCAL_DIR", "public"),
			PublicURL:   strings.TrimRight(getenv("STORAGE_PUBLIC_URL", "http://localhost:3000/public"), "/"),
			R2AccountID: getenv("R2_ACCOUNT_ID", ""),
			R2AccessKey: getenv("R2_ACCESS_KEY", ""),
			R2SecretKey: getenv("R2_SECRET_KEY", ""),
			R2Bucket:    getenv("R2_BUCKET_NAME", ""),
		},
		Mail: MailConfig{
			ResendAPIKey: getenv("RESEND_API_KEY", ""),
			From:         getenv("MAIL_FROM", "Aqarat <noreply@aqarat.app>"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getenv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getenv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getenv("GOOGLE_REDIRECT_URL", ""),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getenv("LOG_LEVEL", "info")),
			Pretty: getbool("LOG_PRETTY", false),
		},
		Seed: SeedConfig{
			AdminName:     getenv("SEED_ADMIN_NAME", "Admin"),
			AdminEmail:    getenv("SEED_ADMIN_EMAIL", ""),
			AdminPassword: getenv("SEED_ADMIN_PASSWORD", ""),
		},
	}

	if cfg.Log.Level == "warning" {
		cfg.Log.Level = "warn"
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if c.Server.BodyLimit <= 0 {
		return errors.New("BODY_LIMIT must be > 0")
	}
	if c.Server.RateRPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if c.Server.RateBurst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("DATABASE_URL must not be empty")
	}
	if c.Cache.ReviewPagesBound < 1 || c.Cache.AdminUserPagesBound < 1 {
		return errors.New("cache page bounds must be >= 1")
	}
	if len(c.JWT.Secret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be > 0")
	}
	switch c.Storage.Driver {
	case "local":
		if strings.TrimSpace(c.Storage.LocalDir) == "" {
			return errors.New("STORAGE_LOCAL_DIR must not be empty")
		}
	case "r2":
		if c.Storage.R2AccountID == "" || c.Storage.R2AccessKey == "" || c.Storage.R2SecretKey == "" || c.Storage.R2Bucket == "" {
			return errors.New("R2_ACCOUNT_ID, R2_ACCESS_KEY, R2_SECRET_KEY and R2_BUCKET_NAME are required for the r2 driver")
		}
	default:
		return errors.New("STORAGE_DRIVER must be local or r2")
	}
	if c.Storage.PublicURL == "" {
		return errors.New("STORAGE_PUBLIC_URL must not be empty")
	}
	return nil
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.OAuth.GoogleClientID != "" && c.OAuth.GoogleClientSecret != "" && c.OAuth.GoogleRedirectURL != ""
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
