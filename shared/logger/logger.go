package logger

import (
	"io"
	"os"
	"time"
	"todoapi/config"
	"todoapi/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a human readable console writer on the global logger.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	log.Logger = log.Output(output)
	log.Trace().Msg("Zerolog initialized.")
}

// Configure applies the environment specific output and the configured level.
// Production emits plain JSON lines, everything else keeps the console writer.
func Configure(config *config.Config) {
	if config.Server.Env == constant.ServerEnvProduction {
		UseOutput(os.Stdout)
	}

	SetLogLevel(config)

	log.Logger = log.With().Str("app", config.App.Name).Logger()
}

// UseOutput replaces the global writer with w.
func UseOutput(w io.Writer) {
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
