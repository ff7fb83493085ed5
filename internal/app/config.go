package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, loaded from the environment.
// A .env file is honored in development so local runs don't need a wrapper
// script.
type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`
	Addr      string `env:"ADDR" envDefault:":8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// JWTSecret signs session tokens. Must be at least 32 bytes; outside
	// dev there is no default, a missing secret aborts startup.
	JWTSecret string        `env:"JWT_SECRET"`
	Issuer    string        `env:"TOKEN_ISSUER" envDefault:"cobrex"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// StoreDriver selects the backing store: "memory" or "sqlite".
	StoreDriver  string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DatabaseFile string `env:"DATABASE_FILE" envDefault:"cobrex.db"`
	AuditLogCap  int    `env:"AUDIT_LOG_CAP" envDefault:"1000"`

	// Seed admin, created on first start when the store has no users.
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrador"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// devSecret keeps local runs zero-config. It never leaves dev: any other
// environment must provide JWT_SECRET.
const devSecret = "dev-only-secret-do-not-use-in-prod!!"

func LoadConfig() (Config, error) {
	// Missing .env is fine; variables already in the environment win.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != "dev" {
			return Config{}, fmt.Errorf("JWT_SECRET is required when ENV=%q", cfg.Env)
		}
		cfg.JWTSecret = devSecret
	}

	switch cfg.StoreDriver {
	case "memory", "sqlite":
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}
