package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"todoapi/config"
	"todoapi/internal/domains/todo/model"
	gDto "todoapi/shared/dto"
	"todoapi/shared/failure"
	"todoapi/shared/tablestore"
)

// Todo stores tasks under the configured partition.
type Todo interface {
	Insert(ctx context.Context, entity model.TodoEntity) error
	// Get is a point lookup by row key. A missing task is a not found failure.
	Get(ctx context.Context, rowKey string) (model.TodoEntity, error)
	// Query pages through the tasks matching filter. An empty filter matches every task.
	Query(ctx context.Context, filter gDto.FilterGroup) tablestore.Pager[model.TodoEntity]
	Update(ctx context.Context, entity model.TodoEntity, ifMatch tablestore.ETag) error
	Delete(ctx context.Context, rowKey string, ifMatch tablestore.ETag) error
}

type repositoryImpl struct {
	client       tablestore.Client[model.TodoEntity]
	partitionKey string
	pageSize     int
}

func New(client tablestore.Client[model.TodoEntity], cfg *config.Config) Todo {
	return &repositoryImpl{
		client:       client,
		partitionKey: cfg.Store.PartitionKey,
		pageSize:     cfg.Store.PageSize,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, entity model.TodoEntity) error {
	entity.PartitionKey = r.partitionKey

	if _, err := r.client.AddEntity(ctx, entity); err != nil {
		return fmt.Errorf("failed to insert %s: %w", model.EntityName, err)
	}

	return nil
}

func (r *repositoryImpl) Get(ctx context.Context, rowKey string) (model.TodoEntity, error) {
	filter := gDto.And(gDto.Eq(model.FieldRowKey, rowKey))

	entity, found, err := tablestore.First(tablestore.QueryAll(ctx, r.client.Query(ctx, r.partitionKey, filter, 1), identity))
	if err != nil {
		return entity, fmt.Errorf("failed to get %s: %w", model.EntityName, err)
	}

	if !found {
		return entity, failure.NotFound(model.EntityName + " not found") //nolint:wrapcheck
	}

	return entity, nil
}

func (r *repositoryImpl) Query(ctx context.Context, filter gDto.FilterGroup) tablestore.Pager[model.TodoEntity] {
	return r.client.Query(ctx, r.partitionKey, filter, r.pageSize)
}

func (r *repositoryImpl) Update(ctx context.Context, entity model.TodoEntity, ifMatch tablestore.ETag) error {
	entity.PartitionKey = r.partitionKey

	if _, err := r.client.UpdateEntity(ctx, entity, ifMatch); err != nil {
		return fmt.Errorf("failed to update %s: %w", model.EntityName, err)
	}

	return nil
}

func (r *repositoryImpl) Delete(ctx context.Context, rowKey string, ifMatch tablestore.ETag) error {
	if err := r.client.DeleteEntity(ctx, r.partitionKey, rowKey, ifMatch); err != nil {
		return fmt.Errorf("failed to delete %s: %w", model.EntityName, err)
	}

	return nil
}

func identity(entity model.TodoEntity) model.TodoEntity {
	return entity
}
