package model

import (
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Event represents an event planned by an organizer
type Event struct {
	ID          types.EventID
	OrganizerID types.UserID
	Title       string
	Description string
	Type        string // e.g. conference, wedding
	Category    string
	StartDate   time.Time
	EndDate     time.Time
	Timezone    string
	// Attendance
	ExpectedAttendees *int
	Capacity          *int
	// Budget
	TotalBudget *float64
	Currency    string
	Status      types.EventStatus
	Visibility  types.Visibility
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewEvent creates a draft, private event
func NewEvent(organizerID types.UserID, title, eventType string, start, end time.Time) (*Event, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(eventType) == "" {
		return nil, NewValidationError("Title and type are required")
	}
	if end.Before(start) {
		return nil, NewValidationError("End date must be after start date",
			goerr.V("startDate", start), goerr.V("endDate", end))
	}

	now := time.Now()
	return &Event{
		ID:          types.NewEventID(),
		OrganizerID: organizerID,
		Title:       title,
		Type:        eventType,
		StartDate:   start,
		EndDate:     end,
		Timezone:    "UTC",
		Currency:    "USD",
		Status:      types.EventStatusDraft,
		Visibility:  types.VisibilityPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Copy returns a deep copy of the event
func (e *Event) Copy() *Event {
	if e == nil {
		return nil
	}
	c := *e
	if e.ExpectedAttendees != nil {
		c.ExpectedAttendees = intPtr(*e.ExpectedAttendees)
	}
	if e.Capacity != nil {
		c.Capacity = intPtr(*e.Capacity)
	}
	if e.TotalBudget != nil {
		c.TotalBudget = floatPtr(*e.TotalBudget)
	}
	return &c
}

// ExpectedCount returns the expected attendees or zero
func (e *Event) ExpectedCount() int {
	if e.ExpectedAttendees == nil {
		return 0
	}
	return *e.ExpectedAttendees
}

// Budget returns the total budget or zero
func (e *Event) Budget() float64 {
	if e.TotalBudget == nil {
		return 0
	}
	return *e.TotalBudget
}

// statusProgress is the progress reported for events without tasks
var statusProgress = map[types.EventStatus]int{
	types.EventStatusDraft:      10,
	types.EventStatusPlanning:   40,
	types.EventStatusConfirmed:  80,
	types.EventStatusInProgress: 90,
	types.EventStatusCompleted:  100,
	types.EventStatusCancelled:  0,
}

// Progress returns the completion percentage of the event's tasks
func (e *Event) Progress(tasks []*Task) int {
	if len(tasks) == 0 {
		return statusProgress[e.Status]
	}
	done := 0
	for _, t := range tasks {
		if t.IsCompleted() {
			done++
		}
	}
	return done * 100 / len(tasks)
}

// CreateEventRequest holds the fields submitted to create an event
type CreateEventRequest struct {
	Title             string
	Description       string
	Type              string
	Category          string
	StartDate         string
	EndDate           string
	Timezone          string
	ExpectedAttendees *int
	Capacity          *int
	TotalBudget       *float64
	Currency          string
	Visibility        string
}

// UpdateEventRequest holds optional event changes
type UpdateEventRequest struct {
	Title       *string
	Description *string
	Category    *string
	StartDate   *string
	EndDate     *string
	TotalBudget *float64
	Status      *string
	Visibility  *string
}

// EventFilter narrows an organizer's event listing
type EventFilter struct {
	Status string
	Type   string
	Page   int
	Limit  int
}

// Match reports whether the event passes the filter
func (f *EventFilter) Match(e *Event) bool {
	if f.Status != "" && string(e.Status) != f.Status {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	return true
}
