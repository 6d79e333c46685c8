package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusOpen TaskStatus = "open"
	TaskStatusDone TaskStatus = "done"
)

// Task is an actionable item derived from a classified message or created
// directly. DueDate carries date precision only; the time part is midnight UTC.
type Task struct {
	ID              uuid.UUID  `json:"task_id"`
	UserID          string     `json:"user_id"`
	SourceMessageID *uuid.UUID `json:"source_message_id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Status          TaskStatus `json:"status"`
	Priority        int        `json:"priority"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TaskUpdate carries optional field changes for a task. Nil means unchanged.
type TaskUpdate struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Priority    *int        `json:"priority,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
}
