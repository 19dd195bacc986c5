package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
	defaultDSN       = "file:crmdesk.db?_pragma=foreign_keys(1)"
	minBcryptCost    = 4
	maxBcryptCost    = 31
)

type Config struct {
	AppEnv   string `mapstructure:"app_env"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	DatabaseURL string `mapstructure:"database_url"`
	RedisURL    string `mapstructure:"redis_url"`
	SentryDSN   string `mapstructure:"sentry_dsn"`

	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`

	CookieName     string `mapstructure:"cookie_name"`
	CookieSecure   bool   `mapstructure:"cookie_secure"`
	CookieSameSite string `mapstructure:"cookie_samesite"`
	CookiePath     string `mapstructure:"cookie_path"`

	CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Load reads configuration from an optional .env file, an optional
// configs/config.yaml and the process environment, in increasing priority.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")
	setDefaults(v)
	v.AutomaticEnv()

	// Config file is optional
	_ = v.ReadInConfig()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "dev")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("database_url", defaultDSN)
	v.SetDefault("redis_url", "")
	v.SetDefault("sentry_dsn", "")
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("cookie_name", "token")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("cookie_samesite", "Lax")
	v.SetDefault("cookie_path", "/")
	v.SetDefault("cors_allowed_origins", "http://localhost:5173")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.CorsAllowedOrigins = splitOrigins(v.GetString("cors_allowed_origins"))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.BcryptCost < minBcryptCost || cfg.BcryptCost > maxBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", minBcryptCost, maxBcryptCost)
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		return fmt.Errorf("COOKIE_NAME must not be empty")
	}
	if strings.TrimSpace(cfg.CookiePath) == "" {
		return fmt.Errorf("COOKIE_PATH must not be empty")
	}
	sameSite := strings.ToLower(strings.TrimSpace(cfg.CookieSameSite))
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}

	if cfg.IsProdLike() {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SameSite converts the configured mode for http.SetCookie.
func (c *Config) SameSite() http.SameSite {
	switch strings.ToLower(c.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
