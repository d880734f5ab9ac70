package model

import (
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Task represents a planning task attached to an event
type Task struct {
	ID          types.TaskID       // Unique identifier
	EventID     types.EventID      // Parent event ID
	OrganizerID types.UserID       // Owner of the parent event
	Title       string             // Task title
	DueDate     time.Time          // Due date
	Priority    types.TaskPriority // high, medium or low
	Status      types.TaskStatus   // todo or completed
	CreatedAt   time.Time          // Creation timestamp
	UpdatedAt   time.Time          // Update timestamp
	CompletedAt *time.Time         // Completion timestamp (optional)
}

// NewTask creates a new Task instance
func NewTask(eventID types.EventID, organizerID types.UserID, title string, due time.Time, priority types.TaskPriority) (*Task, error) {
	if eventID == "" {
		return nil, goerr.New("event ID is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, NewMissingFieldError("title")
	}
	if priority == "" {
		priority = types.TaskPriorityMedium
	}
	if !priority.IsValid() {
		return nil, NewValidationError("Invalid priority", goerr.V("priority", priority))
	}

	now := time.Now()
	return &Task{
		ID:          types.NewTaskID(),
		EventID:     eventID,
		OrganizerID: organizerID,
		Title:       title,
		DueDate:     due,
		Priority:    priority,
		Status:      types.TaskStatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateStatus updates the task status
func (t *Task) UpdateStatus(status types.TaskStatus) error {
	if !status.IsValid() {
		return NewValidationError("Invalid task status", goerr.V("status", status))
	}

	now := time.Now()
	t.Status = status
	t.UpdatedAt = now

	if status == types.TaskStatusCompleted {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	return nil
}

// IsCompleted returns true if the task is completed
func (t *Task) IsCompleted() bool {
	return t.Status == types.TaskStatusCompleted
}

// IsOverdue returns true if the task is pending past its due date
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && t.DueDate.Before(now)
}

// Copy returns a deep copy of the task
func (t *Task) Copy() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	return &c
}

// CreateTaskRequest holds the fields submitted to create a task
type CreateTaskRequest struct {
	Title    string
	DueDate  string
	Priority string
}

// UpdateTaskRequest holds optional task changes
type UpdateTaskRequest struct {
	Title    *string
	DueDate  *string
	Priority *string
	Status   *string
}
