// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Response shapes for the departures endpoint.
const (
	ShapeFlat    = "flat"
	ShapeGrouped = "grouped"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"`

	// Inbound shared secret. Empty means open access.
	APIKey string `env:"API_KEY"`

	Weather WeatherConfig
	Board   BoardConfig
	Cache   CacheConfig
}

// WeatherConfig holds the OpenWeatherMap settings.
type WeatherConfig struct {
	APIKey string `env:"OPENWEATHER_API_KEY"`
	City   string `env:"WEATHER_CITY" envDefault:"Modena"`
}

// BoardConfig controls how departures are shaped for the display.
type BoardConfig struct {
	ResponseShape  string `env:"RESPONSE_SHAPE" envDefault:"flat"`
	FilterDeparted bool   `env:"FILTER_DEPARTED" envDefault:"false"`

	DelayPlusOnZero      bool `env:"DELAY_PLUS_ON_ZERO" envDefault:"true"`
	CommaDecimal         bool `env:"TEMP_COMMA_DECIMAL" envDefault:"false"`
	TitleCaseDestination bool `env:"TITLE_CASE_DESTINATION" envDefault:"true"`

	// Destination allow-lists for the grouped shape. Deployment data,
	// not logic: the JSON keys and their membership both come from the
	// environment.
	GroupAName         string   `env:"GROUP_A_NAME" envDefault:"toModena"`
	GroupADestinations []string `env:"GROUP_A_DESTINATIONS" envSeparator:","`
	GroupBName         string   `env:"GROUP_B_NAME" envDefault:"toBologna"`
	GroupBDestinations []string `env:"GROUP_B_DESTINATIONS" envSeparator:","`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	Backend       string `env:"CACHE_BACKEND" envDefault:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DeparturesTTL time.Duration `env:"DEPARTURES_TTL" envDefault:"60s"`
	WeatherTTL    time.Duration `env:"WEATHER_TTL" envDefault:"5m"`
	StationTTL    time.Duration `env:"STATION_TTL" envDefault:"24h"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HasAPIKey returns true if the inbound shared-secret gate is configured.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// Validate ensures the configuration is usable at startup.
func (c *Config) Validate() error {
	if c.Weather.APIKey == "" {
		return fmt.Errorf("OPENWEATHER_API_KEY is required")
	}
	switch c.Board.ResponseShape {
	case ShapeFlat, ShapeGrouped:
	default:
		return fmt.Errorf("RESPONSE_SHAPE must be %q or %q, got %q", ShapeFlat, ShapeGrouped, c.Board.ResponseShape)
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheMemory, CacheRedis, c.Cache.Backend)
	}
	return nil
}
