package model

import (
	"time"
	"todoapi/shared/tablestore"
)

const (
	EntityName = "todo"

	FieldPartitionKey    = tablestore.ColumnPartitionKey
	FieldRowKey          = tablestore.ColumnRowKey
	FieldCreatedAt       = "created_at"
	FieldTaskDescription = "task_description"
	FieldIsCompleted     = "is_completed"
)

// ToDoItem is the wire form of a task.
type ToDoItem struct {
	ID              string    `json:"id"`
	TaskDescription string    `json:"taskDescription"`
	CreatedAt       time.Time `json:"createdAt"`
	IsCompleted     bool      `json:"isCompleted"`
}

// TodoEntity is the stored form of a task. RowKey is the item id.
type TodoEntity struct {
	PartitionKey    string          `db:"partition_key" dynamodbav:"partition_key"`
	RowKey          string          `db:"row_key" dynamodbav:"row_key"`
	CreatedAt       time.Time       `db:"created_at" dynamodbav:"created_at"`
	TaskDescription string          `db:"task_description" dynamodbav:"task_description"`
	IsCompleted     bool            `db:"is_completed" dynamodbav:"is_completed"`
	ETag            tablestore.ETag `db:"etag" dynamodbav:"etag"`
}

func (e TodoEntity) GetPartitionKey() string {
	return e.PartitionKey
}

func (e TodoEntity) GetRowKey() string {
	return e.RowKey
}

func (e TodoEntity) GetETag() tablestore.ETag {
	return e.ETag
}
