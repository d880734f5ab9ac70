package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const maxUpcomingTasks = 5

// Dashboard implements DashboardUseCase
type Dashboard struct {
	repo interfaces.Repository
}

// NewDashboard creates a new Dashboard use case
func NewDashboard(repo interfaces.Repository) DashboardUseCase {
	return &Dashboard{repo: repo}
}

// GetDashboard summarizes the organizer's events and pending tasks
func (u *Dashboard) GetDashboard(ctx context.Context, organizerID types.UserID) (*model.DashboardView, error) {
	now := time.Now()

	events, err := u.repo.ListEventsByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list events", goerr.V("organizerID", organizerID))
	}
	tasks, err := u.repo.ListTasksByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V("organizerID", organizerID))
	}

	tasksByEvent := make(map[types.EventID][]*model.Task)
	for _, t := range tasks {
		tasksByEvent[t.EventID] = append(tasksByEvent[t.EventID], t)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})

	view := &model.DashboardView{
		Events: []model.DashboardEvent{},
		Tasks:  []model.DashboardTask{},
	}
	titles := make(map[types.EventID]string, len(events))
	var allocated float64
	createdThisMonth := 0

	for _, e := range events {
		titles[e.ID] = e.Title

		venueName, committed, err := u.bookingSummary(ctx, e.ID)
		if err != nil {
			return nil, err
		}

		if e.Status.IsActive() {
			view.Stats.ActiveEvents++
			view.Stats.TotalAttendees += e.ExpectedCount()
			view.Stats.TotalBudget += e.Budget()
			allocated += committed
			if e.CreatedAt.Year() == now.Year() && e.CreatedAt.Month() == now.Month() {
				createdThisMonth++
			}
		}

		view.Events = append(view.Events, model.DashboardEvent{
			ID:        e.ID.String(),
			Title:     e.Title,
			Date:      e.StartDate.Format("2006-01-02"),
			Status:    string(e.Status),
			Attendees: e.ExpectedCount(),
			Budget:    e.Budget(),
			Currency:  e.Currency,
			Progress:  e.Progress(tasksByEvent[e.ID]),
			Venue:     venueName,
		})
	}

	if view.Stats.TotalBudget > 0 {
		view.Stats.BudgetAllocated = int(allocated * 100 / view.Stats.TotalBudget)
	}
	view.Stats.ActiveEventsChange = fmt.Sprintf("+%d this month", createdThisMonth)
	view.Stats.AttendeesChange = fmt.Sprintf("across %d active events", view.Stats.ActiveEvents)

	for _, t := range tasks {
		if t.IsCompleted() {
			continue
		}
		view.Stats.PendingTasks++
		if t.IsOverdue(now) {
			view.Stats.OverdueTasks++
		}
		if len(view.Tasks) < maxUpcomingTasks {
			view.Tasks = append(view.Tasks, model.DashboardTask{
				ID:       t.ID.String(),
				Title:    t.Title,
				DueDate:  t.DueDate.Format("2006-01-02"),
				Priority: string(t.Priority),
				Event:    titles[t.EventID],
			})
		}
	}

	return view, nil
}

// bookingSummary returns the booked venue name and the committed spend of an event
func (u *Dashboard) bookingSummary(ctx context.Context, eventID types.EventID) (string, float64, error) {
	bookings, err := u.repo.ListBookingsByEvent(ctx, eventID)
	if err != nil {
		return "", 0, goerr.Wrap(err, "failed to list bookings", goerr.V("eventID", eventID))
	}

	var venueName string
	var committed float64
	for _, b := range bookings {
		if b.Status == types.BookingStatusCancelled {
			continue
		}
		committed += b.CommittedAmount()
		if venueName == "" && b.VenueID != "" {
			venue, err := u.repo.GetVenue(ctx, b.VenueID)
			if err != nil {
				if model.HasTag(err, model.ErrTagVenueNotFound) {
					continue
				}
				return "", 0, goerr.Wrap(err, "failed to get venue", goerr.V("venueID", b.VenueID))
			}
			venueName = venue.Name
		}
	}
	return venueName, committed, nil
}
