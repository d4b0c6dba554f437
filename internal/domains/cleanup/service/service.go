package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"todoapi/infras/otel"
	"todoapi/internal/domains/todo/model"
	"todoapi/internal/domains/todo/repository"
	"todoapi/shared/constant"
	gDto "todoapi/shared/dto"
	"todoapi/shared/tablestore"

	"github.com/rs/zerolog/log"
)

const (
	otelAttrScanned = "cleanup.scanned"
	otelAttrDeleted = "cleanup.deleted"
	otelAttrFailed  = "cleanup.failed"
)

// Result summarises one cleanup run.
type Result struct {
	Scanned int `json:"scanned"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

type Cleanup interface {
	// DeleteCompleted removes every completed task. A failed delete is logged and
	// counted and the scan continues; only a failed scan is returned as an error.
	DeleteCompleted(ctx context.Context) (Result, error)
}

type serviceImpl struct {
	repo repository.Todo
	otel otel.Otel
}

func New(repo repository.Todo, otel otel.Otel) Cleanup {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) DeleteCompleted(ctx context.Context) (res Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".DeleteCompleted")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	completed := gDto.And(gDto.Eq(model.FieldIsCompleted, true))

	for entity, queryErr := range tablestore.QueryAll(ctx, s.repo.Query(ctx, completed), identity) {
		if queryErr != nil {
			log.Error().Err(queryErr).Int("deleted", res.Deleted).Msg("failed to scan completed todos")

			return res, fmt.Errorf("failed to scan completed todos: %w", queryErr)
		}

		res.Scanned++

		if deleteErr := s.repo.Delete(ctx, entity.RowKey, entity.ETag); deleteErr != nil {
			res.Failed++

			log.Warn().Err(deleteErr).Str("id", entity.RowKey).Msg("failed to delete completed todo, retrying next run")

			continue
		}

		res.Deleted++
	}

	scope.SetAttributes(map[string]any{
		otelAttrScanned: res.Scanned,
		otelAttrDeleted: res.Deleted,
		otelAttrFailed:  res.Failed,
	})

	return res, nil
}

func identity(entity model.TodoEntity) model.TodoEntity {
	return entity
}
