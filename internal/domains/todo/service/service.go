package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Todo=MockTodoService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"todoapi/config"
	"todoapi/infras/kafka"
	"todoapi/infras/otel"
	"todoapi/internal/domains/todo/mapper"
	"todoapi/internal/domains/todo/model"
	"todoapi/internal/domains/todo/model/dto"
	"todoapi/internal/domains/todo/repository"
	"todoapi/shared/constant"
	gDto "todoapi/shared/dto"
	"todoapi/shared/failure"
	"todoapi/shared/tablestore"
	"todoapi/shared/timezone"
	"todoapi/shared/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	errTodoNotFound       = "todo not found"
	defaultPublishTimeout = 5 * time.Second
)

type Todo interface {
	// Create stores a new open task. req arrives already validated by the handler.
	Create(ctx context.Context, req dto.CreateTodoRequest) (model.ToDoItem, error)
	GetAll(ctx context.Context) ([]model.ToDoItem, error)
	Get(ctx context.Context, id string) (model.ToDoItem, error)
	MarkDone(ctx context.Context, id string) error
	// Update decodes body only once the task is known to exist.
	Update(ctx context.Context, id string, body io.Reader) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Todo
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
	now   func() time.Time
}

func New(repo repository.Todo, kafka kafka.Client, cfg *config.Config, otel otel.Otel) Todo {
	return &serviceImpl{
		repo:  repo,
		kafka: kafka,
		cfg:   cfg,
		otel:  otel,
		now:   timezone.Now,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTodoRequest) (item model.ToDoItem, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	item = req.ToModel(s.now())

	if err = s.repo.Insert(ctx, mapper.ToEntity(item, s.cfg.Store.PartitionKey)); err != nil {
		log.Error().Err(err).Msg("failed to create todo")

		return model.ToDoItem{}, fmt.Errorf("failed to create todo: %w", err)
	}

	s.publishCreated(ctx, item)

	return item, nil
}

// publishCreated announces a stored task to the archive consumer. The task is
// already durable, so a failed publish is only logged. Publishing ignores
// request cancellation and is bounded by Kafka.PublishTimeoutSeconds.
func (s *serviceImpl) publishCreated(ctx context.Context, item model.ToDoItem) {
	if len(s.cfg.Kafka.Brokers) == 0 {
		log.Debug().Str("id", item.ID).Msg("no kafka brokers configured, skipping creation event")

		return
	}

	timeout := time.Duration(s.cfg.Kafka.PublishTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".TodoCreated")
	defer scope.End()

	err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topic, kafka.Message{Key: item.ID, Value: item})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", item.ID).Msg("failed to publish todo created event")
	}
}

func (s *serviceImpl) GetAll(ctx context.Context) (items []model.ToDoItem, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	items, err = tablestore.Collect(tablestore.QueryAll(ctx, s.repo.Query(ctx, gDto.FilterGroup{}), mapper.ToItem))
	if err != nil {
		log.Error().Err(err).Msg("failed to get todos")

		return nil, fmt.Errorf("failed to get todos: %w", err)
	}

	return items, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (item model.ToDoItem, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	entity, err := s.find(ctx, id)
	if err != nil {
		return item, err
	}

	return mapper.ToItem(entity), nil
}

func (s *serviceImpl) MarkDone(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkDone")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	entity, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	entity.IsCompleted = true

	return s.write(ctx, entity, "mark todo done")
}

func (s *serviceImpl) Update(ctx context.Context, id string, body io.Reader) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	entity, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	var req dto.UpdateTodoRequest
	if err = validator.Validate(body, &req); err != nil {
		return err //nolint:wrapcheck
	}

	return s.write(ctx, mapper.ApplyUpdate(req, entity), "update todo")
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	entity, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, entity.RowKey, entity.ETag); err != nil {
		return s.writeFailure(err, "delete todo")
	}

	return nil
}

// find is the existence check that precedes every read and write by id.
// Ids that are not UUIDs can never match a stored task.
func (s *serviceImpl) find(ctx context.Context, id string) (model.TodoEntity, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.TodoEntity{}, failure.NotFound(errTodoNotFound) //nolint:wrapcheck
	}

	entity, err := s.repo.Get(ctx, parsed.String())
	if err != nil {
		if failure.IsNotFound(err) {
			return entity, failure.NotFound(errTodoNotFound) //nolint:wrapcheck
		}

		log.Error().Err(err).Str("id", id).Msg("failed to get todo")

		return entity, fmt.Errorf("failed to get todo: %w", err)
	}

	return entity, nil
}

// write replaces entity guarded by the token read in find.
func (s *serviceImpl) write(ctx context.Context, entity model.TodoEntity, action string) error {
	if err := s.repo.Update(ctx, entity, entity.ETag); err != nil {
		return s.writeFailure(err, action)
	}

	return nil
}

func (s *serviceImpl) writeFailure(err error, action string) error {
	if errors.Is(err, tablestore.ErrPreconditionFailed) {
		log.Warn().Err(err).Msg("todo changed concurrently, failed to " + action)

		return failure.Conflict("todo was modified or removed concurrently") //nolint:wrapcheck
	}

	log.Error().Err(err).Msg("failed to " + action)

	return fmt.Errorf("failed to %s: %w", action, err)
}
