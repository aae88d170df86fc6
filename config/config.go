package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the console backend.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Cache    CacheConfig
	Session  SessionConfig
	Public   PublicConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UpstreamConfig holds the aggregates and catalog backend endpoints.
type UpstreamConfig struct {
	AggregatesBaseURL string        `mapstructure:"aggregates_base_url"`
	CatalogBaseURL    string        `mapstructure:"catalog_base_url"`
	APIKey            string        `mapstructure:"api_key"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// CacheConfig tunes the synchronization engine's freshness policy.
type CacheConfig struct {
	StaleAfter      time.Duration `mapstructure:"stale_after"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	MaxEntries      int           `mapstructure:"max_entries"`
}

// SessionConfig holds the session-token settings.
type SessionConfig struct {
	Secret     string `mapstructure:"secret"`
	CookieName string `mapstructure:"cookie_name"`
}

// PublicConfig holds the public product surface settings.
type PublicConfig struct {
	InternalSearchPath string `mapstructure:"internal_search_path"`
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/retailpulse/")

	v.SetEnvPrefix("RETAILPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("upstream.aggregates_base_url", "http://localhost:9100")
	v.SetDefault("upstream.catalog_base_url", "http://localhost:9200")
	// Registered empty so the env override is picked up on Unmarshal.
	v.SetDefault("upstream.api_key", "")
	v.SetDefault("upstream.requests_per_second", 10.0)
	v.SetDefault("upstream.timeout", "10s")

	// Dashboard aggregates go stale after a minute and refresh every 30s
	// while someone is watching.
	v.SetDefault("cache.stale_after", "60s")
	v.SetDefault("cache.refresh_interval", "30s")
	v.SetDefault("cache.fetch_timeout", "15s")
	v.SetDefault("cache.max_entries", 256)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.cookie_name", "rp_session")

	v.SetDefault("public.internal_search_path", "/inventory/products")
}

// validate validates the configuration.
func validate(config *Config) error {
	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required (set RETAILPULSE_SESSION_SECRET)")
	}
	if config.Upstream.AggregatesBaseURL == "" {
		return fmt.Errorf("aggregates base URL is required")
	}
	if config.Upstream.CatalogBaseURL == "" {
		return fmt.Errorf("catalog base URL is required")
	}
	if config.Cache.StaleAfter <= 0 || config.Cache.RefreshInterval <= 0 {
		return fmt.Errorf("cache.stale_after and cache.refresh_interval must be positive")
	}
	return nil
}
