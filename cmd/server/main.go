package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/retailpulse/console/config"
	httpDelivery "github.com/retailpulse/console/internal/delivery/http"
	"github.com/retailpulse/console/internal/infrastructure/catalog"
	"github.com/retailpulse/console/internal/infrastructure/metricsapi"
	"github.com/retailpulse/console/internal/infrastructure/session"
	"github.com/retailpulse/console/internal/infrastructure/telemetry"
	"github.com/retailpulse/console/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine; config falls back to real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Infow("starting retailpulse console backend",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"stale_after", cfg.Cache.StaleAfter,
		"refresh_interval", cfg.Cache.RefreshInterval,
	)

	recorder := telemetry.NewRecorder()

	aggregates := metricsapi.NewClient(
		cfg.Upstream.AggregatesBaseURL,
		cfg.Upstream.APIKey,
		cfg.Upstream.RequestsPerSecond,
		cfg.Upstream.Timeout,
		sugar,
	)
	catalogClient := catalog.NewClient(
		cfg.Upstream.CatalogBaseURL,
		cfg.Upstream.APIKey,
		cfg.Upstream.RequestsPerSecond,
		cfg.Upstream.Timeout,
		sugar,
	)
	sessions := session.NewStore(cfg.Session.Secret)

	scopes := usecase.NewScopeController(recorder, sugar)
	engine := usecase.NewEngine(usecase.EngineConfig{
		StaleAfter:      cfg.Cache.StaleAfter,
		RefreshInterval: cfg.Cache.RefreshInterval,
		FetchTimeout:    cfg.Cache.FetchTimeout,
		MaxEntries:      cfg.Cache.MaxEntries,
	}, scopes, recorder, sugar)

	dashboard := usecase.NewDashboardService(engine, scopes, aggregates, sugar)
	defer dashboard.Close()

	gateway := usecase.NewDisclosureGateway(catalogClient, cfg.Public.InternalSearchPath, recorder, sugar)

	handler := httpDelivery.NewHandler(dashboard, scopes, gateway, sessions, cfg.Session.CookieName, sugar)
	router := httpDelivery.SetupRouter(cfg, handler, recorder.Handler(), sugar)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	sugar.Infow("server listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		sugar.Fatalw("server stopped", "error", err)
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
