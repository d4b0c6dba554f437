package repository_test

import (
	"context"
	"testing"
	"time"
	"todoapi/config"
	"todoapi/internal/domains/todo/model"
	"todoapi/internal/domains/todo/repository"
	gDto "todoapi/shared/dto"
	"todoapi/shared/failure"
	"todoapi/shared/tablestore"
	"todoapi/shared/tablestore/tablestoretest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository() (repository.Todo, *tablestoretest.Table[model.TodoEntity]) {
	cfg := &config.Config{}
	cfg.Store.PartitionKey = "TODO"
	cfg.Store.PageSize = 2

	table := tablestoretest.New[model.TodoEntity]()

	return repository.New(table, cfg), table
}

func TestRepository_InsertAndGet(t *testing.T) {
	repo, table := newRepository()
	ctx := context.Background()

	entity := model.TodoEntity{RowKey: "a", TaskDescription: "first", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Insert(ctx, entity))

	stored, ok := table.Get("TODO", "a")
	require.True(t, ok, "expected entity under the configured partition")
	assert.NotEmpty(t, stored.ETag)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", got.TaskDescription)
	assert.Equal(t, stored.ETag, got.ETag)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, failure.IsNotFound(err))

	err = repo.Insert(ctx, entity)
	require.ErrorIs(t, err, tablestore.ErrEntityExists)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	repo, table := newRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, model.TodoEntity{RowKey: "a", TaskDescription: "first"}))

	current, err := repo.Get(ctx, "a")
	require.NoError(t, err)

	current.TaskDescription = "changed"
	require.NoError(t, repo.Update(ctx, current, current.ETag))

	err = repo.Update(ctx, current, current.ETag)
	require.ErrorIs(t, err, tablestore.ErrPreconditionFailed, "stale token must be rejected")

	err = repo.Delete(ctx, "a", current.ETag)
	require.ErrorIs(t, err, tablestore.ErrPreconditionFailed)

	require.NoError(t, repo.Delete(ctx, "a", tablestore.ETagAny))
	assert.Zero(t, table.Len("TODO"))
}

func TestRepository_Query(t *testing.T) {
	repo, _ := newRepository()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Insert(ctx, model.TodoEntity{RowKey: key, IsCompleted: key != "b"}))
	}

	identity := func(e model.TodoEntity) string { return e.RowKey }

	all, err := tablestore.Collect(tablestore.QueryAll(ctx, repo.Query(ctx, gDto.FilterGroup{}), identity))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, all)

	done, err := tablestore.Collect(tablestore.QueryAll(ctx, repo.Query(ctx, gDto.And(gDto.Eq(model.FieldIsCompleted, true))), identity))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, done)
}
