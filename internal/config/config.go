package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port, LogLevel string }
type BackendCfg struct {
	BaseURL    string
	TimeoutSec int
}
type RedisCfg struct {
	Addr           string
	Password       string
	DB             int
	ConnectTimeout time.Duration
}

type SessionCfg struct {
	CookieName   string
	CookieSecure bool
	TTL          time.Duration // 0 keeps entries until logout
}

type Cfg struct {
	App     AppCfg
	Backend BackendCfg
	Redis   RedisCfg
	Session SessionCfg
}

// IsProduction reports whether the console runs with APP_ENV=production.
func (c Cfg) IsProduction() bool { return c.App.Env == "production" }

// Load reads .env (if present) and the process environment, exiting on invalid settings.
func Load() Cfg {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	cfg, err := FromViper(v)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	return cfg
}

// FromViper builds a Cfg from v after applying defaults.
func FromViper(v *viper.Viper) (Cfg, error) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BACKEND_BASE_URL", "https://api.roomily.tech")
	v.SetDefault("BACKEND_TIMEOUT_SEC", 30)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CONNECT_TIMEOUT_SEC", 15)
	v.SetDefault("SESSION_COOKIE_NAME", "roomily_admin_session")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("SESSION_TTL_HOURS", 0)

	cfg := Cfg{
		App: AppCfg{
			Env:      strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
			Port:     strings.TrimSpace(v.GetString("APP_PORT")),
			LogLevel: strings.TrimSpace(v.GetString("LOG_LEVEL")),
		},
		Backend: BackendCfg{
			BaseURL:    strings.TrimRight(strings.TrimSpace(v.GetString("BACKEND_BASE_URL")), "/"),
			TimeoutSec: v.GetInt("BACKEND_TIMEOUT_SEC"),
		},
		Redis: RedisCfg{
			Addr:           strings.TrimSpace(v.GetString("REDIS_ADDR")),
			Password:       v.GetString("REDIS_PASSWORD"),
			DB:             v.GetInt("REDIS_DB"),
			ConnectTimeout: time.Duration(v.GetInt("REDIS_CONNECT_TIMEOUT_SEC")) * time.Second,
		},
		Session: SessionCfg{
			CookieName:   strings.TrimSpace(v.GetString("SESSION_COOKIE_NAME")),
			CookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),
			TTL:          time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		},
	}

	// Fail fast on required settings
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Cfg{}, fmt.Errorf("BACKEND_BASE_URL must be an absolute URL, got %q", cfg.Backend.BaseURL)
	}
	if cfg.App.Port == "" {
		return Cfg{}, fmt.Errorf("APP_PORT is required")
	}
	if cfg.Session.CookieName == "" {
		return Cfg{}, fmt.Errorf("SESSION_COOKIE_NAME is required")
	}
	if cfg.Backend.TimeoutSec < 0 {
		return Cfg{}, fmt.Errorf("BACKEND_TIMEOUT_SEC must not be negative")
	}
	if cfg.Session.TTL < 0 {
		return Cfg{}, fmt.Errorf("SESSION_TTL_HOURS must not be negative")
	}
	return cfg, nil
}
