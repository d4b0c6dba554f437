package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	"todoapi/config"
	"todoapi/infras/otel"
	"todoapi/internal/handlers/health"
	"todoapi/shared/constant"
	"todoapi/transport/http/router"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

type HTTP struct {
	Config *config.Config
	Router router.Router
	Status *health.Status
	otel   otel.Otel
	mux    *chi.Mux
	once   sync.Once
}

func New(cfg *config.Config, r router.Router, status *health.Status, otl otel.Otel) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
		Status: status,
		otel:   otl,
	}
}

// Serve listens until SIGINT or SIGTERM, then drains through the grace and cleanup periods.
func (h *HTTP) Serve() {
	server := &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting up HTTP server.")

		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}

		return
	case <-ctx.Done():
	}

	h.respondToSigterm()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server cleanly")
	}

	if err := h.otel.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

// Handler builds the routed handler once. It also serves the serverless entry point.
func (h *HTTP) Handler() http.Handler {
	h.once.Do(func() {
		h.mux = chi.NewRouter()
		h.Router.SetupRoutes(h.mux)
		h.Status.Set(health.ServerStateReady)
	})

	return h.mux
}

func (h *HTTP) respondToSigterm() {
	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.Status.Set(health.ServerStateInGracePeriod)

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.Status.Set(health.ServerStateInCleanupPeriod)

	time.Sleep(time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second)
}
