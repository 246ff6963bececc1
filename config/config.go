// Package config loads server configuration from the environment and
// an optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the server binary.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type DatabaseConfig struct {
	// Path to the SQLite file; ":memory:" for ephemeral runs.
	Path string
}

type EngineConfig struct {
	// Tier controls which depreciation methods are available: 1, 2 or 3.
	Tier int
	// DefaultTaxRate applies to tax-book comparisons when the request
	// does not carry one.
	DefaultTaxRate  string
	ShutdownTimeout string
}

// Load reads configuration from environment variables and files.
// Precedence: environment > .env file > defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_PATH", "assets.db")
	v.SetDefault("ENGINE_TIER", 3)
	v.SetDefault("DEFAULT_TAX_RATE", "0.21")
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")

	v.AutomaticEnv()

	// Optional .env file; absence is not an error.
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	config := Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("DATABASE_PATH"),
		},
		Engine: EngineConfig{
			Tier:            v.GetInt("ENGINE_TIER"),
			DefaultTaxRate:  v.GetString("DEFAULT_TAX_RATE"),
			ShutdownTimeout: v.GetString("SHUTDOWN_TIMEOUT"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Engine.Tier < 1 || c.Engine.Tier > 3 {
		return fmt.Errorf("ENGINE_TIER must be 1, 2 or 3")
	}
	if _, err := decimal.NewFromString(c.Engine.DefaultTaxRate); err != nil {
		return fmt.Errorf("DEFAULT_TAX_RATE must be a valid decimal: %w", err)
	}
	if _, err := time.ParseDuration(c.Engine.ShutdownTimeout); err != nil {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be a valid duration: %w", err)
	}
	return nil
}

// IsDevelopment returns true if running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// DefaultTaxRate returns the configured tax rate as a decimal.
func (c *Config) DefaultTaxRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Engine.DefaultTaxRate)
	return rate
}

// ShutdownTimeout returns the graceful shutdown window.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Engine.ShutdownTimeout)
	return d
}
