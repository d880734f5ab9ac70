package model_test

import (
	"math"
	"testing"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestNewEvent(t *testing.T) {
	start := time.Date(2025, 9, 15, 9, 0, 0, 0, time.UTC)

	t.Run("creates draft private event", func(t *testing.T) {
		event, err := model.NewEvent("usr_1", "Tech Summit", "conference", start, start.Add(8*time.Hour))
		gt.NoError(t, err).Required()
		gt.Equal(t, event.Status, types.EventStatusDraft)
		gt.Equal(t, event.Visibility, types.VisibilityPrivate)
		gt.Equal(t, event.Currency, "USD")
		gt.Equal(t, event.Timezone, "UTC")
	})

	t.Run("requires title and type", func(t *testing.T) {
		_, err := model.NewEvent("usr_1", "", "conference", start, start)
		gt.Error(t, err)
		gt.Equal(t, model.RootMessage(err), "Title and type are required")
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := model.NewEvent("usr_1", "Summit", "conference", start, start.Add(-time.Hour))
		gt.Error(t, err)
		gt.True(t, model.HasTag(err, model.ErrTagValidation))
	})
}

func TestEventProgress(t *testing.T) {
	start := time.Now()
	event, err := model.NewEvent("usr_1", "Summit", "conference", start, start)
	gt.NoError(t, err).Required()

	t.Run("status default without tasks", func(t *testing.T) {
		cases := map[types.EventStatus]int{
			types.EventStatusDraft:      10,
			types.EventStatusPlanning:   40,
			types.EventStatusConfirmed:  80,
			types.EventStatusInProgress: 90,
			types.EventStatusCompleted:  100,
			types.EventStatusCancelled:  0,
		}
		for status, expected := range cases {
			event.Status = status
			gt.Equal(t, event.Progress(nil), expected)
		}
	})

	t.Run("completed task ratio", func(t *testing.T) {
		var tasks []*model.Task
		for i := 0; i < 3; i++ {
			task, err := model.NewTask(event.ID, event.OrganizerID, "task", start, "")
			gt.NoError(t, err).Required()
			tasks = append(tasks, task)
		}
		gt.NoError(t, tasks[0].UpdateStatus(types.TaskStatusCompleted))
		gt.Equal(t, event.Progress(tasks), 33)
	})
}

func TestEventCopy(t *testing.T) {
	budget := 1000.0
	event := &model.Event{ID: "evt_1", TotalBudget: &budget}
	c := event.Copy()
	*c.TotalBudget = 5
	gt.Equal(t, event.Budget(), 1000.0)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2025-09-15T09:00:00Z", time.Date(2025, 9, 15, 9, 0, 0, 0, time.UTC)},
		{"2025-09-15T09:00:00+09:00", time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-09-15T09:00:00", time.Date(2025, 9, 15, 9, 0, 0, 0, time.UTC)},
		{"2025-09-15T09:00:00.123", time.Date(2025, 9, 15, 9, 0, 0, 123000000, time.UTC)},
		{"2025-09-15", time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := model.ParseTimestamp(tt.input)
			gt.NoError(t, err).Required()
			gt.True(t, got.Equal(tt.expected))
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := model.ParseTimestamp("next tuesday")
		gt.Error(t, err)
		gt.V(t, goerr.Values(err)["value"]).Equal("next tuesday")
	})
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page := model.Paginate(items, 2, 3)
	gt.Equal(t, page.Items, []int{4, 5, 6})
	gt.Equal(t, page.Total, 7)
	gt.Equal(t, page.TotalPages, 3)

	last := model.Paginate(items, 3, 3)
	gt.Equal(t, last.Items, []int{7})

	beyond := model.Paginate(items, 9, 3)
	gt.A(t, beyond.Items).Length(0)

	for _, huge := range []int{922337203685477581, math.MaxInt} {
		far := model.Paginate(items, huge, 20)
		gt.A(t, far.Items).Length(0)
		gt.Equal(t, far.Page, huge)
		gt.Equal(t, far.Total, 7)
	}

	clamped := model.Paginate(items, 0, 500)
	gt.Equal(t, clamped.Page, 1)
	gt.Equal(t, clamped.Limit, 100)

	defaulted := model.Paginate(items, 1, 0)
	gt.Equal(t, defaulted.Limit, 20)
}

func TestTaskOverdue(t *testing.T) {
	now := time.Now()
	task, err := model.NewTask("evt_1", "usr_1", "Book DJ", now.Add(-time.Hour), types.TaskPriorityHigh)
	gt.NoError(t, err).Required()
	gt.True(t, task.IsOverdue(now))

	gt.NoError(t, task.UpdateStatus(types.TaskStatusCompleted))
	gt.False(t, task.IsOverdue(now))
	gt.NotNil(t, task.CompletedAt)

	gt.NoError(t, task.UpdateStatus(types.TaskStatusTodo))
	gt.Nil(t, task.CompletedAt)

	_, err = model.NewTask("evt_1", "usr_1", "Book DJ", now, "urgent")
	gt.Error(t, err)
}
