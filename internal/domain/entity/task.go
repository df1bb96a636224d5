package entity

import "time"

// TaskStatus represents the lifecycle state of a collection task.
// Transitions are monotonic: pending -> processing -> completed or error.
// Terminal states never change again.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskError      TaskStatus = "error"
)

// Terminal reports whether the status is a final state.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskError
}

// CollectionTask tracks one asynchronous collection run.
type CollectionTask struct {
	ID           string
	Status       TaskStatus
	StartedAt    time.Time
	CompletedAt  *time.Time
	ItemsStored  int
	ErrorMessage string
}
