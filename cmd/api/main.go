package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/localpulse/localpulse/internal/adapters/basemap"
	"github.com/localpulse/localpulse/internal/adapters/cache"
	"github.com/localpulse/localpulse/internal/adapters/events"
	"github.com/localpulse/localpulse/internal/adapters/providers/geolocation"
	"github.com/localpulse/localpulse/internal/adapters/search"
	"github.com/localpulse/localpulse/internal/adapters/seed"
	"github.com/localpulse/localpulse/internal/api/middleware"
	"github.com/localpulse/localpulse/internal/api/routes"
	"github.com/localpulse/localpulse/internal/application/services"
	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/internal/infrastructure/clients/openai"
	"github.com/localpulse/localpulse/internal/infrastructure/clients/redis"
	"github.com/localpulse/localpulse/internal/infrastructure/clients/typesense"
	"github.com/localpulse/localpulse/internal/infrastructure/observability"
	"github.com/localpulse/localpulse/internal/infrastructure/render"
	"github.com/localpulse/localpulse/pkg/config"
	"github.com/localpulse/localpulse/pkg/secrets"
)

const redisKeyPrefix = "localpulse:"

func main() {
	// Secrets from Vault land in the environment before configuration is read
	if _, err := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv()); err != nil {
		log.Warn().Err(err).Msg("failed to load secrets from vault")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment, cfg.Server.LogLevel)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Redis backs the cache and the event bus; both fall back to memory
	var cacheProvider providers.CacheProvider = cache.NewMemoryAdapter()
	var eventBus providers.EventBus = events.NewMemoryEventBus()
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-memory cache and event bus")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient, redisKeyPrefix)
			eventBus = events.NewRedisEventBus(redisClient)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("redis cache and event bus enabled")
		}
	}

	seeds := seed.NewStaticRepository()

	searchProvider, err := buildSearchProvider(ctx, cfg, seeds)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Search.Provider).Msg("failed to initialize search provider")
	}
	if cfg.Search.CacheTTLSeconds > 0 {
		searchProvider = search.NewCachedProvider(searchProvider, cacheProvider, cfg.Search.CacheTTLSeconds, metrics)
	}
	log.Info().Str("provider", searchProvider.Name()).Msg("search provider ready")

	sketcher, err := render.NewSketcher()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load map font")
	}

	var backend providers.MapBackend
	switch cfg.Map.Backend {
	case config.MapBackendGoogle:
		backend = basemap.NewGoogleBackend(cfg.Map.APIKey, cfg.Map.MapID, cacheProvider, cfg.Map.StaticCacheTTLSeconds)
		if cfg.Map.APIKey == "" {
			log.Warn().Msg("MAP_API_KEY is not set; the map pane will show a configuration notice")
		}
	default:
		backend = basemap.NewLeafletBackend(cfg.Map.TileURL, cfg.Map.Attribution, sketcher)
	}

	// Initialize services
	geocoder := geolocation.NewHashGeocoder(entities.Coordinates{Lat: cfg.Geocoder.BaseLat, Lng: cfg.Geocoder.BaseLng})
	normalizer := services.NewResultNormalizer(geocoder, cfg.Geocoder.Concurrency)
	renderer := services.NewMapRenderer(backend, sketcher, services.MapRendererConfig{
		DefaultCenter:   entities.Coordinates{Lat: cfg.Map.DefaultLat, Lng: cfg.Map.DefaultLng},
		DefaultZoom:     cfg.Map.DefaultZoom,
		UserZoom:        cfg.Map.UserZoom,
		ResultMinZoom:   cfg.Map.ResultMinZoom,
		MaxZoom:         cfg.Map.MaxZoom,
		ViewportWidth:   cfg.Map.ViewportWidth,
		ViewportHeight:  cfg.Map.ViewportHeight,
		BoundsPadding:   cfg.Map.BoundsPadding,
		Clustering:      cfg.Map.Clustering,
		ClusterRadiusPx: cfg.Map.ClusterRadiusPx,
	})

	sessionService := services.NewSessionService(
		services.NewSearchDispatcher(searchProvider, normalizer),
		normalizer,
		seeds,
		renderer,
		services.NewResultsList(cfg.Session.ListLocale),
		eventBus,
		func() providers.ReportableLocationSource { return geolocation.NewReportedLocationSource() },
		services.SessionServiceConfig{
			TTL:           cfg.Session.TTL,
			SweepInterval: cfg.Session.SweepInterval,
			InitialCity:   cfg.Session.InitialCity,
			WelcomePolicy: entities.WelcomePolicy(cfg.Map.WelcomePolicy),
		},
	)
	sessionService.StartJanitor(ctx)

	cacheMiddleware := middleware.NewCacheMiddleware(cacheProvider)
	cacheMiddleware.SetMetrics(metrics)

	router := routes.NewRouterForService(sessionService, cacheMiddleware, metrics).
		WithAllowedOrigins(cfg.Server.AllowedOrigins)
	handler := router.SetupRoutes()

	// Create HTTP server; no write timeout so event streams stay open
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	sessionService.Close()
	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("error closing event bus")
	}

	log.Info().Msg("server stopped")
}

// buildSearchProvider selects the collaborator named by SEARCH_PROVIDER
func buildSearchProvider(ctx context.Context, cfg *config.Config, seeds *seed.StaticRepository) (providers.SearchProvider, error) {
	switch cfg.Search.Provider {
	case config.SearchProviderTypesense:
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			return nil, err
		}
		adapter := search.NewTypesenseAdapter(tsClient)
		if err := adapter.InitSchema(ctx); err != nil {
			return nil, err
		}
		return adapter, nil
	case config.SearchProviderSeed:
		return search.NewSeedProvider(seeds), nil
	default:
		client, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
