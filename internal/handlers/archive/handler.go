package archive

import (
	"context"
	"fmt"
	"net/http"
	"todoapi/infras/kafka"
	"todoapi/infras/otel"
	"todoapi/internal/domains/archive/service"
	"todoapi/internal/domains/todo/model"
	"todoapi/shared/constant"
	"todoapi/shared/failure"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type Handler struct {
	service service.Archive
	otel    otel.Otel
}

func New(service service.Archive, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Handle archives the task carried by one creation event.
func (handler *Handler) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := handler.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".ArchiveCreated")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"messaging.kafka.topic":  message.Topic,
		"messaging.kafka.key":    string(message.Key),
		"messaging.kafka.offset": message.Offset,
	})

	item, err := kafka.Decode[model.ToDoItem](message)
	if err != nil {
		log.Error().Err(err).Str("key", string(message.Key)).Msg("malformed todo creation event")

		return err //nolint:wrapcheck
	}

	if err = handler.service.Archive(ctx, item); err != nil {
		if failure.GetCode(err) == http.StatusBadRequest {
			return fmt.Errorf("%w: %w", kafka.ErrUnprocessable, err)
		}

		return fmt.Errorf("failed to archive todo %s: %w", item.ID, err)
	}

	log.Debug().Str("id", item.ID).Msg("todo archived")

	return nil
}
