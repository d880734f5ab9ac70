package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Event implements EventUseCase
type Event struct {
	repo interfaces.Repository
}

// NewEvent creates a new Event use case
func NewEvent(repo interfaces.Repository) EventUseCase {
	return &Event{repo: repo}
}

// ownedEvent loads an event and hides it unless organizerID owns it
func ownedEvent(ctx context.Context, repo interfaces.Repository, organizerID types.UserID, eventID types.EventID) (*model.Event, error) {
	if eventID == "" {
		return nil, goerr.Wrap(model.ErrEventNotFound, "event ID is empty")
	}
	event, err := repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get event", goerr.V("eventID", eventID))
	}
	if event.OrganizerID != organizerID {
		return nil, goerr.Wrap(model.ErrEventNotFound, "event owned by another organizer",
			goerr.V("eventID", eventID), goerr.V("organizerID", organizerID))
	}
	return event, nil
}

// ListEvents returns the organizer's events, latest start first
func (u *Event) ListEvents(ctx context.Context, organizerID types.UserID, filter *model.EventFilter) (*model.Page[*model.Event], error) {
	if filter == nil {
		filter = &model.EventFilter{}
	}

	events, err := u.repo.ListEventsByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list events", goerr.V("organizerID", organizerID))
	}

	var matched []*model.Event
	for _, e := range events {
		if filter.Match(e) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StartDate.After(matched[j].StartDate)
	})

	page := model.Paginate(matched, filter.Page, filter.Limit)
	return &page, nil
}

// CreateEvent creates a draft event for the organizer
func (u *Event) CreateEvent(ctx context.Context, organizerID types.UserID, req *model.CreateEventRequest) (*model.Event, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Type) == "" {
		return nil, model.NewValidationError("Title and type are required")
	}
	if req.StartDate == "" || req.EndDate == "" {
		return nil, model.NewValidationError("Start date and end date are required")
	}
	start, err := model.ParseTimestamp(req.StartDate)
	if err != nil {
		return nil, model.NewValidationError("Invalid date format", goerr.V("startDate", req.StartDate))
	}
	end, err := model.ParseTimestamp(req.EndDate)
	if err != nil {
		return nil, model.NewValidationError("Invalid date format", goerr.V("endDate", req.EndDate))
	}

	event, err := model.NewEvent(organizerID, req.Title, req.Type, start, end)
	if err != nil {
		return nil, err
	}
	event.Description = req.Description
	event.Category = req.Category
	if req.Timezone != "" {
		event.Timezone = req.Timezone
	}
	event.ExpectedAttendees = req.ExpectedAttendees
	event.Capacity = req.Capacity
	event.TotalBudget = req.TotalBudget
	if req.Currency != "" {
		event.Currency = strings.ToUpper(req.Currency)
	}
	if req.Visibility != "" {
		visibility := types.Visibility(req.Visibility)
		if !visibility.IsValid() {
			return nil, model.NewValidationError("Invalid visibility", goerr.V("visibility", req.Visibility))
		}
		event.Visibility = visibility
	}

	if err := u.repo.PutEvent(ctx, event); err != nil {
		return nil, goerr.Wrap(err, "failed to save event")
	}

	ctxlog.From(ctx).Info("Created event",
		"eventID", event.ID,
		"organizerID", organizerID,
		"title", event.Title,
	)

	return event, nil
}

// GetEvent returns one of the organizer's events
func (u *Event) GetEvent(ctx context.Context, organizerID types.UserID, id types.EventID) (*model.Event, error) {
	return ownedEvent(ctx, u.repo, organizerID, id)
}

// UpdateEvent applies the given changes to one of the organizer's events
func (u *Event) UpdateEvent(ctx context.Context, organizerID types.UserID, id types.EventID, req *model.UpdateEventRequest) (*model.Event, error) {
	event, err := ownedEvent(ctx, u.repo, organizerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, model.NewValidationError("Title and type are required")
		}
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.StartDate != nil {
		start, err := model.ParseTimestamp(*req.StartDate)
		if err != nil {
			return nil, model.NewValidationError("Invalid start date format", goerr.V("startDate", *req.StartDate))
		}
		event.StartDate = start
	}
	if req.EndDate != nil {
		end, err := model.ParseTimestamp(*req.EndDate)
		if err != nil {
			return nil, model.NewValidationError("Invalid end date format", goerr.V("endDate", *req.EndDate))
		}
		event.EndDate = end
	}
	if event.EndDate.Before(event.StartDate) {
		return nil, model.NewValidationError("End date must be after start date",
			goerr.V("startDate", event.StartDate), goerr.V("endDate", event.EndDate))
	}
	if req.TotalBudget != nil {
		event.TotalBudget = req.TotalBudget
	}
	if req.Status != nil {
		status := types.EventStatus(*req.Status)
		if !status.IsValid() {
			return nil, model.NewValidationError("Invalid status", goerr.V("status", *req.Status))
		}
		event.Status = status
	}
	if req.Visibility != nil {
		visibility := types.Visibility(*req.Visibility)
		if !visibility.IsValid() {
			return nil, model.NewValidationError("Invalid visibility", goerr.V("visibility", *req.Visibility))
		}
		event.Visibility = visibility
	}
	event.UpdatedAt = time.Now()

	if err := u.repo.PutEvent(ctx, event); err != nil {
		return nil, goerr.Wrap(err, "failed to save event", goerr.V("eventID", id))
	}
	return event, nil
}

// DeleteEvent removes the event with its tasks
func (u *Event) DeleteEvent(ctx context.Context, organizerID types.UserID, id types.EventID) error {
	if _, err := ownedEvent(ctx, u.repo, organizerID, id); err != nil {
		return err
	}

	tasks, err := u.repo.ListTasksByEvent(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list event tasks", goerr.V("eventID", id))
	}
	for _, task := range tasks {
		if err := u.repo.DeleteTask(ctx, task.ID); err != nil {
			return goerr.Wrap(err, "failed to delete task", goerr.V("taskID", task.ID))
		}
	}

	if err := u.repo.DeleteEvent(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete event", goerr.V("eventID", id))
	}

	ctxlog.From(ctx).Info("Deleted event",
		"eventID", id,
		"tasks", len(tasks),
	)
	return nil
}
