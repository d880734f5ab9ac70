package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Task implements TaskUseCase
type Task struct {
	repo interfaces.Repository
}

// NewTask creates a new Task use case
func NewTask(repo interfaces.Repository) TaskUseCase {
	return &Task{repo: repo}
}

// ownedTask loads a task of one of the organizer's events
func (u *Task) ownedTask(ctx context.Context, organizerID types.UserID, taskID types.TaskID) (*model.Task, error) {
	if taskID == "" {
		return nil, goerr.Wrap(model.ErrTaskNotFound, "task ID is empty")
	}
	task, err := u.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("taskID", taskID))
	}
	if task.OrganizerID != organizerID {
		return nil, goerr.Wrap(model.ErrTaskNotFound, "task owned by another organizer",
			goerr.V("taskID", taskID), goerr.V("organizerID", organizerID))
	}
	return task, nil
}

// ListTasks retrieves the tasks of an event by due date
func (u *Task) ListTasks(ctx context.Context, organizerID types.UserID, eventID types.EventID) ([]*model.Task, error) {
	if _, err := ownedEvent(ctx, u.repo, organizerID, eventID); err != nil {
		return nil, err
	}

	tasks, err := u.repo.ListTasksByEvent(ctx, eventID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V("eventID", eventID))
	}
	return tasks, nil
}

// CreateTask adds a task to an event
func (u *Task) CreateTask(ctx context.Context, organizerID types.UserID, eventID types.EventID, req *model.CreateTaskRequest) (*model.Task, error) {
	if _, err := ownedEvent(ctx, u.repo, organizerID, eventID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, model.NewMissingFieldError("title")
	}
	if strings.TrimSpace(req.DueDate) == "" {
		return nil, model.NewMissingFieldError("dueDate")
	}
	due, err := model.ParseTimestamp(req.DueDate)
	if err != nil {
		return nil, model.NewValidationError("Invalid due date format", goerr.V("dueDate", req.DueDate))
	}

	task, err := model.NewTask(eventID, organizerID, strings.TrimSpace(req.Title), due, types.TaskPriority(req.Priority))
	if err != nil {
		return nil, err
	}

	if err := u.repo.PutTask(ctx, task); err != nil {
		return nil, goerr.Wrap(err, "failed to save task",
			goerr.V("taskID", task.ID),
			goerr.V("eventID", eventID))
	}
	return task, nil
}

// UpdateTask applies the given changes to a task
func (u *Task) UpdateTask(ctx context.Context, organizerID types.UserID, taskID types.TaskID, req *model.UpdateTaskRequest) (*model.Task, error) {
	task, err := u.ownedTask(ctx, organizerID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, model.NewValidationError("Title cannot be empty")
		}
		task.Title = title
	}
	if req.DueDate != nil {
		due, err := model.ParseTimestamp(*req.DueDate)
		if err != nil {
			return nil, model.NewValidationError("Invalid due date format", goerr.V("dueDate", *req.DueDate))
		}
		task.DueDate = due
	}
	if req.Priority != nil {
		priority := types.TaskPriority(*req.Priority)
		if !priority.IsValid() {
			return nil, model.NewValidationError("Invalid priority", goerr.V("priority", *req.Priority))
		}
		task.Priority = priority
	}
	if req.Status != nil {
		if err := task.UpdateStatus(types.TaskStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	task.UpdatedAt = time.Now()

	if err := u.repo.PutTask(ctx, task); err != nil {
		return nil, goerr.Wrap(err, "failed to update task", goerr.V("taskID", taskID))
	}
	return task, nil
}

// DeleteTask removes a task
func (u *Task) DeleteTask(ctx context.Context, organizerID types.UserID, taskID types.TaskID) error {
	if _, err := u.ownedTask(ctx, organizerID, taskID); err != nil {
		return err
	}
	if err := u.repo.DeleteTask(ctx, taskID); err != nil {
		return goerr.Wrap(err, "failed to delete task", goerr.V("taskID", taskID))
	}
	return nil
}
