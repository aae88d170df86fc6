package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		os.Unsetenv("RETAILPULSE_SERVER_PORT")
		os.Unsetenv("RETAILPULSE_SERVER_ENVIRONMENT")
		os.Unsetenv("RETAILPULSE_UPSTREAM_AGGREGATES_BASE_URL")
		os.Unsetenv("RETAILPULSE_UPSTREAM_CATALOG_BASE_URL")
		os.Unsetenv("RETAILPULSE_UPSTREAM_API_KEY")
		os.Unsetenv("RETAILPULSE_CACHE_STALE_AFTER")
		os.Unsetenv("RETAILPULSE_CACHE_REFRESH_INTERVAL")
		os.Unsetenv("RETAILPULSE_CACHE_MAX_ENTRIES")
		os.Unsetenv("RETAILPULSE_SESSION_SECRET")
		os.Unsetenv("RETAILPULSE_SESSION_COOKIE_NAME")
		os.Unsetenv("RETAILPULSE_PUBLIC_INTERNAL_SEARCH_PATH")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("RETAILPULSE_SESSION_SECRET", "test-secret")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Upstream.AggregatesBaseURL != "http://localhost:9100" {
			t.Errorf("Upstream.AggregatesBaseURL = %s, want http://localhost:9100", cfg.Upstream.AggregatesBaseURL)
		}
		if cfg.Cache.StaleAfter != 60*time.Second {
			t.Errorf("Cache.StaleAfter = %v, want 60s", cfg.Cache.StaleAfter)
		}
		if cfg.Cache.RefreshInterval != 30*time.Second {
			t.Errorf("Cache.RefreshInterval = %v, want 30s", cfg.Cache.RefreshInterval)
		}
		if cfg.Cache.MaxEntries != 256 {
			t.Errorf("Cache.MaxEntries = %d, want 256", cfg.Cache.MaxEntries)
		}
		if cfg.Session.CookieName != "rp_session" {
			t.Errorf("Session.CookieName = %s, want rp_session", cfg.Session.CookieName)
		}
		if cfg.Public.InternalSearchPath != "/inventory/products" {
			t.Errorf("Public.InternalSearchPath = %s, want /inventory/products", cfg.Public.InternalSearchPath)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("RETAILPULSE_SESSION_SECRET", "test-secret")
		os.Setenv("RETAILPULSE_SERVER_PORT", "9090")
		os.Setenv("RETAILPULSE_SERVER_ENVIRONMENT", "production")
		os.Setenv("RETAILPULSE_UPSTREAM_AGGREGATES_BASE_URL", "https://aggregates.internal")
		os.Setenv("RETAILPULSE_UPSTREAM_CATALOG_BASE_URL", "https://catalog.internal")
		os.Setenv("RETAILPULSE_CACHE_STALE_AFTER", "90s")
		os.Setenv("RETAILPULSE_CACHE_REFRESH_INTERVAL", "15s")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Upstream.AggregatesBaseURL != "https://aggregates.internal" {
			t.Errorf("Upstream.AggregatesBaseURL = %s", cfg.Upstream.AggregatesBaseURL)
		}
		if cfg.Upstream.CatalogBaseURL != "https://catalog.internal" {
			t.Errorf("Upstream.CatalogBaseURL = %s", cfg.Upstream.CatalogBaseURL)
		}
		if cfg.Cache.StaleAfter != 90*time.Second {
			t.Errorf("Cache.StaleAfter = %v, want 90s", cfg.Cache.StaleAfter)
		}
		if cfg.Cache.RefreshInterval != 15*time.Second {
			t.Errorf("Cache.RefreshInterval = %v, want 15s", cfg.Cache.RefreshInterval)
		}
	})

	t.Run("fails validation when session secret is missing", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing session secret")
		}
	})

	t.Run("fails validation for non-positive freshness windows", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("RETAILPULSE_SESSION_SECRET", "test-secret")
		os.Setenv("RETAILPULSE_CACHE_STALE_AFTER", "0s")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero stale_after")
		}
	})
}
