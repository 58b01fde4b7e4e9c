package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration. Every field maps to an env var of the
// same name; an optional .env file in the working directory is read first.
type Config struct {
	ListenAddr string `mapstructure:"LISTEN_ADDR"`

	// Gateway
	GatewayURL     string        `mapstructure:"GATEWAY_URL"`
	GatewayTimeout time.Duration `mapstructure:"GATEWAY_TIMEOUT"`

	// Audit log
	DBPath         string        `mapstructure:"DB_PATH"`
	AuditRetention time.Duration `mapstructure:"AUDIT_RETENTION"` // 0 keeps everything

	// Sessions
	SessionBackend string        `mapstructure:"SESSION_BACKEND"` // memory | redis
	RedisURL       string        `mapstructure:"REDIS_URL"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`

	// UI
	FormResetDelay time.Duration `mapstructure:"FORM_RESET_DELAY"`
	Collation      string        `mapstructure:"COLLATION"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("GATEWAY_URL", "http://localhost:3000")
	v.SetDefault("GATEWAY_TIMEOUT", time.Duration(0))
	v.SetDefault("DB_PATH", "/data/meisterplan.db")
	v.SetDefault("AUDIT_RETENTION", 30*24*time.Hour)
	v.SetDefault("SESSION_BACKEND", "memory")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("SESSION_TTL", 12*time.Hour)
	v.SetDefault("FORM_RESET_DELAY", 2*time.Second)
	v.SetDefault("COLLATION", "de")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")

	// A missing .env is fine; a malformed one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
