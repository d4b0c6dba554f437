package mapper_test

import (
	"testing"
	"time"
	"todoapi/internal/domains/todo/mapper"
	"todoapi/internal/domains/todo/model"
	"todoapi/internal/domains/todo/model/dto"

	"github.com/stretchr/testify/assert"
)

func TestToEntityAndBack(t *testing.T) {
	item := model.ToDoItem{
		ID:              "6f1f5a4e-3a52-4d3f-9a51-2a5a0b1f1e11",
		TaskDescription: "water plants",
		CreatedAt:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		IsCompleted:     true,
	}

	entity := mapper.ToEntity(item, "TODO")

	assert.Equal(t, "TODO", entity.PartitionKey)
	assert.Equal(t, item.ID, entity.RowKey)
	assert.Equal(t, item.CreatedAt, entity.CreatedAt)
	assert.Empty(t, entity.ETag)

	assert.Equal(t, item, mapper.ToItem(entity))
}

func TestApplyUpdate(t *testing.T) {
	existing := model.TodoEntity{
		PartitionKey:    "TODO",
		RowKey:          "abc",
		CreatedAt:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		TaskDescription: "old",
		IsCompleted:     true,
		ETag:            "tag",
	}

	updated := mapper.ApplyUpdate(dto.UpdateTodoRequest{TaskDescription: "new"}, existing)

	assert.Equal(t, "new", updated.TaskDescription)
	assert.Equal(t, existing.PartitionKey, updated.PartitionKey)
	assert.Equal(t, existing.RowKey, updated.RowKey)
	assert.Equal(t, existing.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, existing.ETag, updated.ETag)
	assert.Equal(t, "old", existing.TaskDescription)
}
