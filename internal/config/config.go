// Package config loads runtime settings from the environment and holds the
// domain limits shared by the services.
package config

import (
	"fmt"
	"log/slog"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config is the server and admin CLI configuration.
type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR,default=:8080"`
	DatabaseDSN  string        `env:"DATABASE_DSN,required=true"`
	RedisAddr    string        `env:"REDIS_ADDR"`
	RedisPass    string        `env:"REDIS_PASSWORD"`
	RedisDB      int           `env:"REDIS_DB,default=0"`
	JWTSecret    string        `env:"JWT_SECRET,required=true"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,default=72h"`
	LogLevel     string        `env:"LOG_LEVEL,default=info"`
	Debug        bool          `env:"DEBUG,default=false"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=10s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=10s"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("config: no .env file loaded", "error", err)
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return &cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// RedisEnabled reports whether message events should be published.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
