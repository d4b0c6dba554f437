package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	"todoapi/config"
	"todoapi/di"
	"todoapi/shared/logger"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()

	runErr := worker.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := worker.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Worker stopped")
	}

	log.Info().Msg("Worker stopped.")
}
