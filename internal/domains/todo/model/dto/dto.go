package dto

import (
	"time"
	"todoapi/internal/domains/todo/model"

	"github.com/google/uuid"
)

type CreateTodoRequest struct {
	TaskDescription string `json:"taskDescription" validate:"required,notblank,max=1024"`
}

// ToModel builds a new open task. Identity and creation time are always assigned here.
func (c *CreateTodoRequest) ToModel(now time.Time) model.ToDoItem {
	return model.ToDoItem{
		ID:              uuid.NewString(),
		TaskDescription: c.TaskDescription,
		CreatedAt:       now,
		IsCompleted:     false,
	}
}

type UpdateTodoRequest struct {
	TaskDescription string `json:"taskDescription" validate:"required,notblank,max=1024"`
}

// NotFoundResponse is returned for ids that do not resolve to a task.
type NotFoundResponse struct {
	ID string `json:"id"`
}
