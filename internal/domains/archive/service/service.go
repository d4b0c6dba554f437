package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"todoapi/config"
	"todoapi/infras/otel"
	"todoapi/infras/s3"
	"todoapi/internal/domains/todo/model"
	"todoapi/shared/constant"
	"todoapi/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	contentTypePlainText = "text/plain"
	objectExtension      = ".txt"
)

type Archive interface {
	// Archive writes the creation marker of item to the blob store. Archiving
	// the same item again overwrites the marker with identical content.
	Archive(ctx context.Context, item model.ToDoItem) error
}

type serviceImpl struct {
	blob s3.S3
	cfg  *config.Config
	otel otel.Otel
}

func New(blob s3.S3, cfg *config.Config, otel otel.Otel) Archive {
	return &serviceImpl{
		blob: blob,
		cfg:  cfg,
		otel: otel,
	}
}

// ObjectName is the blob name of the marker of a task.
func ObjectName(id string) string {
	return id + objectExtension
}

// Marker is the content written for a created task.
func Marker(id string) string {
	return "Created new task " + id
}

func (s *serviceImpl) Archive(ctx context.Context, item model.ToDoItem) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".Archive")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if item.ID == "" {
		return failure.BadRequestFromString("todo id is required to archive") //nolint:wrapcheck
	}

	bucket := s.cfg.External.S3.BucketName

	if err = s.blob.EnsureBucket(ctx, bucket); err != nil {
		log.Error().Err(err).Str("bucket", bucket).Msg("failed to ensure archive bucket")

		return fmt.Errorf("failed to ensure archive bucket: %w", err)
	}

	key, err := s.blob.UploadFileBytes(ctx, bucket, "", ObjectName(item.ID), contentTypePlainText, []byte(Marker(item.ID)))
	if err != nil {
		log.Error().Err(err).Str("id", item.ID).Msg("failed to archive todo")

		return fmt.Errorf("failed to archive todo: %w", err)
	}

	log.Info().Str("bucket", bucket).Str("key", key).Msg("archived todo")

	return nil
}
