package main

import (
	"context"
	"flag"
	"time"

	"arcronym/internal/config"
	"arcronym/internal/logger"
	"arcronym/internal/pubsub"

	"github.com/joho/godotenv"
)

func main() {
	reset := flag.Bool("reset", false, "delete every topic and subscription first")
	flag.Parse()

	logger := logger.New()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("No .env file found, relying on system environment variables")
	}

	cfg, err := config.LoadGCP()
	if err != nil {
		logger.Fatal().Msgf("Failed to load config: %v", err)
	}
	if cfg.PubSubEmulatorHost == "" {
		logger.Fatal().Msg("PUBSUB_EMULATOR_HOST must be set for local environment.")
	}
	if cfg.PubSubResourceTopic == "" {
		logger.Fatal().Msg("PUBSUB_RESOURCE_TOPIC is not set, nothing to create.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := pubsub.NewClient(ctx, *cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to create Pub/Sub client: %v", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error().Msgf("Failed to close pubsub client: %v", err)
		}
	}()

	if *reset {
		if err := pubsub.ResetEmulator(ctx, client, logger); err != nil {
			logger.Fatal().Msgf("Failed to reset emulator: %v", err)
		}
	}

	names, err := pubsub.EnsureTopic(ctx, client, logger, cfg.PubSubResourceTopic)
	if err != nil {
		logger.Fatal().Msgf("Failed to set up topic %s: %v", cfg.PubSubResourceTopic, err)
	}
	logger.Info().
		Str("topic", names.Topic).
		Str("subscription", names.Subscription).
		Str("dead_letter", names.DeadLetter).
		Msg("Pub/Sub setup for local environment complete")
}
