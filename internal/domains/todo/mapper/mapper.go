// Package mapper converts tasks between their wire and stored forms.
package mapper

import (
	"todoapi/internal/domains/todo/model"
	"todoapi/internal/domains/todo/model/dto"
)

// ToEntity places item under partitionKey with its id as the row key.
func ToEntity(item model.ToDoItem, partitionKey string) model.TodoEntity {
	return model.TodoEntity{
		PartitionKey:    partitionKey,
		RowKey:          item.ID,
		CreatedAt:       item.CreatedAt,
		TaskDescription: item.TaskDescription,
		IsCompleted:     item.IsCompleted,
	}
}

// ToItem is the read path. The id is the row key.
func ToItem(entity model.TodoEntity) model.ToDoItem {
	return model.ToDoItem{
		ID:              entity.RowKey,
		TaskDescription: entity.TaskDescription,
		CreatedAt:       entity.CreatedAt,
		IsCompleted:     entity.IsCompleted,
	}
}

// ApplyUpdate copies the mutable fields of req onto existing. Keys, creation
// time, completion and the concurrency token are kept.
func ApplyUpdate(req dto.UpdateTodoRequest, existing model.TodoEntity) model.TodoEntity {
	existing.TaskDescription = req.TaskDescription

	return existing
}
