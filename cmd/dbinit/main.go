// Command dbinit creates the arc schema and its tables. Running it again only reports what
// already exists.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"arcronym/internal/config"
	"arcronym/internal/logger"
	"arcronym/internal/repository"
	"arcronym/internal/schema"

	"github.com/joho/godotenv"
)

func main() {
	list := flag.Bool("list", false, "print the installation steps and exit")
	timeout := flag.Duration("timeout", time.Minute, "give up after this long")
	flag.Parse()

	if *list {
		for i, step := range schema.Steps() {
			fmt.Printf("%d. %s\n%s\n\n", i+1, step.Message, step.SQL)
		}
		return
	}

	logger := logger.New()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}
	cfg, err := config.LoadDatabase()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := repository.Connect(ctx, *cfg)
	if err != nil {
		logger.Fatal().Msgf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	report := schema.NewLogReporter(logger)
	if err := schema.Install(ctx, pool, report); err != nil {
		logger.Error().Err(err).Msg("Schema installation failed")
		pool.Close()
		os.Exit(1)
	}
	logger.Info().Int("warnings", report.Warnings).Msg("Schema installed")
}
