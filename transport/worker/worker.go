package worker

import (
	"context"
	"fmt"
	"todoapi/config"
	"todoapi/infras/kafka"
	"todoapi/infras/otel"
	"todoapi/internal/handlers/archive"
	"todoapi/internal/handlers/cleanup"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Jobs struct {
	Cleanup cleanup.Handler
	Archive archive.Handler
}

// Worker runs the background jobs: the cleanup timer and the archive consumer.
type Worker struct {
	Config *config.Config
	Kafka  kafka.Client
	Jobs   Jobs
	otel   otel.Otel
}

func New(cfg *config.Config, kafkaClient kafka.Client, jobs Jobs, otl otel.Otel) *Worker {
	return &Worker{
		Config: cfg,
		Kafka:  kafkaClient,
		Jobs:   jobs,
		otel:   otl,
	}
}

// Run blocks until ctx is done or the consumer fails. Scheduled runs never overlap,
// and a run in flight is awaited before Run returns.
func (w *Worker) Run(ctx context.Context) error {
	scheduler, err := w.scheduler(ctx)
	if err != nil {
		return err
	}

	consumeErr := make(chan error, 1)
	consuming := w.consumes()

	if consuming {
		go func() {
			kafkaConfig := w.Config.Kafka

			log.Info().Str("topic", kafkaConfig.Topic).Str("group", kafkaConfig.ConsumerGroup).Msg("Starting archive consumer.")

			consumeErr <- w.Kafka.Consume(ctx, kafkaConfig.ConsumerGroup, kafkaConfig.Topic, w.Jobs.Archive.Handle)
		}()
	} else {
		log.Warn().Msg("Archive consumer disabled.")
	}

	scheduler.Start()

	var runErr error

	select {
	case <-ctx.Done():
		log.Info().Msg("Worker shutting down.")

		if consuming {
			runErr = <-consumeErr
		}
	case runErr = <-consumeErr:
		log.Error().Err(runErr).Msg("Archive consumer stopped.")
	}

	<-scheduler.Stop().Done()

	if consuming {
		if err := w.Kafka.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka client.")
		}
	}

	if runErr != nil {
		return fmt.Errorf("archive consumer: %w", runErr)
	}

	return nil
}

// Shutdown flushes pending traces.
func (w *Worker) Shutdown(ctx context.Context) error {
	return w.otel.Shutdown(ctx) //nolint:wrapcheck
}

func (w *Worker) consumes() bool {
	return w.Config.Jobs.Archive.Enable && len(w.Config.Kafka.Brokers) > 0
}

func (w *Worker) scheduler(ctx context.Context) (*cron.Cron, error) {
	logger := cronLogger{logger: log.With().Str("component", "cron").Logger()}

	scheduler := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	cleanupConfig := w.Config.Jobs.Cleanup
	if !cleanupConfig.Enable {
		log.Warn().Msg("Cleanup job disabled.")

		return scheduler, nil
	}

	if _, err := scheduler.AddFunc(cleanupConfig.Schedule, func() { w.Jobs.Cleanup.Run(ctx) }); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", cleanupConfig.Schedule, err)
	}

	log.Info().Str("schedule", cleanupConfig.Schedule).Msg("Cleanup job scheduled.")

	return scheduler, nil
}

// cronLogger routes scheduler events to zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
