package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/localpulse/localpulse/internal/adapters/search"
	"github.com/localpulse/localpulse/internal/adapters/seed"
	"github.com/localpulse/localpulse/internal/infrastructure/clients/typesense"
	"github.com/localpulse/localpulse/internal/infrastructure/observability"
	"github.com/localpulse/localpulse/pkg/config"
	"github.com/localpulse/localpulse/pkg/secrets"
)

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	// Secrets from Vault land in the environment before configuration is read
	if _, err := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv()); err != nil {
		log.Warn().Err(err).Msg("failed to load secrets from vault")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("localpulse-indexer", cfg.Server.Environment, cfg.Server.LogLevel)

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Err(err).Str("interval", intervalValue).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("next_run", interval).Msg("reindex complete")

		select {
		case <-ctx.Done():
			log.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

// indexOnce loads the static places into the Typesense collection
func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}
	adapter := search.NewTypesenseAdapter(tsClient)

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Str("collection", typesense.PlacesCollection).Msg("resetting collection")
		if err := adapter.Reset(ctx); err != nil {
			return err
		}
	} else if err := adapter.InitSchema(ctx); err != nil {
		return err
	}

	places, err := seed.NewStaticRepository().All(ctx)
	if err != nil {
		return err
	}

	log.Info().Int("places", len(places)).Msg("indexing places")
	indexed, err := adapter.IndexPlaces(ctx, places)
	if err != nil {
		return err
	}
	log.Info().Int("indexed", indexed).Msg("indexing finished")
	return nil
}
