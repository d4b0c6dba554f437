package cleanup

import (
	"context"
	"todoapi/infras/otel"
	"todoapi/internal/domains/cleanup/service"
	"todoapi/shared/constant"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Cleanup
	otel    otel.Otel
}

func New(service service.Cleanup, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Run performs one scheduled cleanup pass. Failures are logged; the next tick retries.
func (handler *Handler) Run(ctx context.Context) {
	ctx, scope := handler.otel.NewScope(ctx, constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CleanupCompleted")
	defer scope.End()

	res, err := handler.service.DeleteCompleted(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int("deleted", res.Deleted).Msg("cleanup run failed")

		return
	}

	log.Info().
		Int("scanned", res.Scanned).
		Int("deleted", res.Deleted).
		Int("failed", res.Failed).
		Msg("cleanup run completed")
}
