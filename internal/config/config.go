package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store backends.
const (
	BackendRemote   = "remote"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	Port      int    `envconfig:"APP_PORT" default:"8080"`
	Store     StoreConfig
	Remote    RemoteConfig
	DB        DBConfig
	Redis     RedisConfig
	Limiter   RateLimiterConfig
	CORS      CORSConfig
	JWT       JWTConfig
	Crypto    CryptoConfig
	Interview InterviewConfig
}

// StoreConfig picks where interviews and contacts live.
type StoreConfig struct {
	Backend string `envconfig:"STORE_BACKEND" default:"remote"`
}

// survey backend configuration
type RemoteConfig struct {
	BaseURL string        `envconfig:"REMOTE_BASE_URL" default:"http://localhost:8000/api"`
	Timeout time.Duration `envconfig:"REMOTE_TIMEOUT" default:"10s"`
}

// database configuration, used by the postgres backend and cmd/migrate
type DBConfig struct {
	DSN         string        `envconfig:"DATABASE_URL"`
	MaxConns    int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns    int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxIdleTime time.Duration `envconfig:"DB_MAX_IDLE_TIME" default:"15m"`
	MaxLifetime time.Duration `envconfig:"DB_MAX_LIFETIME" default:"1h"`
}

// session registry configuration; an empty address keeps sessions in memory
type RedisConfig struct {
	Addr       string        `envconfig:"REDIS_ADDR"`
	Password   string        `envconfig:"REDIS_PASSWORD"`
	DB         int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"12h"`
}

// rate limiting configuration
type RateLimiterConfig struct {
	RPS     float64 `envconfig:"RATE_LIMIT_RPS" default:"10"`
	Burst   int     `envconfig:"RATE_LIMIT_BURST" default:"20"`
	Enabled bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORS configuration
type CORSConfig struct {
	TrustedOrigins []string `envconfig:"CORS_TRUSTED_ORIGINS" default:"http://localhost:3000,http://localhost:4173,http://localhost:5173"`
}

// JWT configuration
type JWTConfig struct {
	Secret         string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"12h"`
}

// encryption configuration
type CryptoConfig struct {
	Secret string `envconfig:"AES_SECRET_KEY" required:"true"`
}

// interview engine configuration
type InterviewConfig struct {
	AutoSave     bool   `envconfig:"AUTOSAVE_ENABLED" default:"true"`
	KeywordsFile string `envconfig:"MATCHER_KEYWORDS_FILE"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	switch c.Store.Backend {
	case BackendRemote:
		if strings.TrimSpace(c.Remote.BaseURL) == "" {
			return fmt.Errorf("REMOTE_BASE_URL is required for the remote backend")
		}
	case BackendPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %q (must be remote or postgres)", c.Store.Backend)
	}
	if c.DB.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DB.MinConns, c.DB.MaxConns)
	}
	if c.Limiter.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be non-negative")
	}
	if c.Limiter.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	secretLen := len(c.Crypto.Secret)
	if secretLen != 16 && secretLen != 24 && secretLen != 32 {
		return fmt.Errorf("AES_SECRET_KEY must be 16, 24, or 32 bytes (got %d)", secretLen)
	}
	if len(c.GetCORSOrigins()) == 0 {
		return fmt.Errorf("at least one trusted origin must be specified")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetCORSOrigins returns the list of trusted CORS origins
func (c *Config) GetCORSOrigins() []string {
	origins := make([]string, 0, len(c.CORS.TrustedOrigins))
	for _, origin := range c.CORS.TrustedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Port=%d, Store=%s, Remote=%s, DB.MaxConns=%d, Redis=%t, "+
		"Limiter.RPS=%.2f, Limiter.Burst=%d, Limiter.Enabled=%t, CORS.Origins=%d, "+
		"JWT.AccessTokenTTL=%s, AutoSave=%t}",
		c.Env, c.Port, c.Store.Backend, c.Remote.BaseURL, c.DB.MaxConns, c.Redis.Addr != "",
		c.Limiter.RPS, c.Limiter.Burst, c.Limiter.Enabled, len(c.CORS.TrustedOrigins),
		c.JWT.AccessTokenTTL, c.Interview.AutoSave)
}
