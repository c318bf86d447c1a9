package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv            string        `env:"APP_ENV" envDefault:"dev"`
	ProdOrigins       string        `env:"PROD_ORIGINS"`
	HTTPAddr          string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBDSN             string        `env:"DB_DSN,required,notEmpty"`
	DBMaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	AutoMigrate       bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	JWTSecret         string        `env:"JWT_SECRET,required,notEmpty"`
	JWTAccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" envDefault:"24h"`
	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"12"`
	AuthCookieName    string        `env:"AUTH_COOKIE_NAME" envDefault:"token"`
	StoragePath       string        `env:"STORAGE_PATH" envDefault:"./data"`
	UserCacheTTL      time.Duration `env:"USER_CACHE_TTL" envDefault:"1m"`
	UserCacheSize     int64         `env:"USER_CACHE_SIZE" envDefault:"1000"`

	IsProduction bool `env:"-"`
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.IsProduction = cfg.AppEnv == PROD_STRING
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTAccessTokenTTL <= 0 {
		return errors.New("JWT_ACCESS_TOKEN_TTL must be positive")
	}
	// bcrypt accepts 4..31
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST %d out of range [4, 31]", c.BcryptCost)
	}
	if c.AuthCookieName == "" {
		return errors.New("AUTH_COOKIE_NAME must not be empty")
	}
	if c.UserCacheSize < 1 {
		return errors.New("USER_CACHE_SIZE must be at least 1")
	}
	return nil
}
