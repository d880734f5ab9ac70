package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/repository"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/m-mizutani/gt"
)

type designerFunc func(ctx context.Context, req *model.DesignRequest) (*model.DesignRecommendation, error)

func (f designerFunc) DesignEvent(ctx context.Context, req *model.DesignRequest) (*model.DesignRecommendation, error) {
	return f(ctx, req)
}

func validDesignRequest() *model.DesignRequest {
	return &model.DesignRequest{
		EventType:     "wedding",
		AttendeeCount: 120,
		Budget:        20000,
		Vibe:          "romantic",
	}
}

func TestPlannerUseCase_DesignEvent(t *testing.T) {
	ctx := newTestContext()
	repo := repository.NewMemory()

	t.Run("Rule based design without designer", func(t *testing.T) {
		planner := usecase.NewPlanner(repo)
		result, err := planner.DesignEvent(ctx, validDesignRequest())
		gt.NoError(t, err).Required()
		gt.Equal(t, result.Input.Currency, "USD")
		gt.Equal(t, result.Note, "")
		gt.Equal(t, result.Recommendation.Layout.Style, "Banquet")
		gt.A(t, result.Recommendation.BudgetBreakdown).Length(4)
		gt.Equal(t, result.Recommendation.BudgetBreakdown[0].EstimatedCost, 8000.0)
	})

	t.Run("Designer result is returned", func(t *testing.T) {
		var received *model.DesignRequest
		planner := usecase.NewPlanner(repo, usecase.WithEventDesigner(designerFunc(
			func(ctx context.Context, req *model.DesignRequest) (*model.DesignRecommendation, error) {
				received = req
				return &model.DesignRecommendation{
					Theme:           model.DesignTheme{Name: "Garden Romance"},
					Layout:          model.DesignLayout{Style: "Banquet"},
					BudgetBreakdown: []model.BudgetItem{{Category: "Venue", Percentage: 100, EstimatedCost: 20000}},
				}, nil
			})))

		req := validDesignRequest()
		req.Currency = "EUR"
		result, err := planner.DesignEvent(ctx, req)
		gt.NoError(t, err).Required()
		gt.Equal(t, result.Recommendation.Theme.Name, "Garden Romance")
		gt.Equal(t, result.Note, "")
		gt.NotNil(t, received)
		gt.Equal(t, received.Currency, "EUR")
	})

	t.Run("Designer failure falls back", func(t *testing.T) {
		planner := usecase.NewPlanner(repo, usecase.WithEventDesigner(designerFunc(
			func(ctx context.Context, req *model.DesignRequest) (*model.DesignRecommendation, error) {
				return nil, errors.New("model unavailable")
			})))

		result, err := planner.DesignEvent(ctx, validDesignRequest())
		gt.NoError(t, err).Required()
		gt.Equal(t, result.Note, usecase.FallbackDesignNote)
		gt.NotNil(t, result.Recommendation)
		gt.NoError(t, result.Recommendation.Validate())
	})

	testCases := []struct {
		name   string
		mutate func(*model.DesignRequest)
		field  string
	}{
		{"Missing event type", func(r *model.DesignRequest) { r.EventType = "" }, "eventType"},
		{"Missing attendees", func(r *model.DesignRequest) { r.AttendeeCount = 0 }, "attendeeCount"},
		{"Missing budget", func(r *model.DesignRequest) { r.Budget = 0 }, "budget"},
		{"Missing vibe", func(r *model.DesignRequest) { r.Vibe = " " }, "vibe"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validDesignRequest()
			tc.mutate(req)
			_, err := usecase.NewPlanner(repo).DesignEvent(ctx, req)
			assertTag(t, err, model.ErrTagValidation, "Missing required field: "+tc.field)
		})
	}
}

func TestPlannerUseCase_RecommendVendors(t *testing.T) {
	ctx := newTestContext()
	repo := repository.NewMemory()
	events := usecase.NewEvent(repo)
	planner := usecase.NewPlanner(repo)
	organizer := types.UserID("usr_planner")

	putVendor(t, ctx, repo, "Shutter Studio", "photography", 4.9, 40)
	putVendor(t, ctx, repo, "Lens Crafters", "photography", 4.2, 8)
	event := createTestEvent(t, ctx, events, organizer, "Wedding", time.Now().Add(90*24*time.Hour))

	t.Run("Without event", func(t *testing.T) {
		guidance, err := planner.RecommendVendors(ctx, organizer, "")
		gt.NoError(t, err).Required()
		gt.A(t, guidance).Length(3)
		gt.Equal(t, guidance[0].Category, "Photography")
		gt.A(t, guidance[0].MatchingVendors).Length(2)
		gt.Equal(t, guidance[0].MatchingVendors[0].BusinessName, "Shutter Studio")
		gt.True(t, guidance[0].BudgetRange == nil)
	})

	t.Run("With event budget", func(t *testing.T) {
		guidance, err := planner.RecommendVendors(ctx, organizer, event.ID)
		gt.NoError(t, err).Required()
		gt.NotNil(t, guidance[1].BudgetRange)
		gt.Equal(t, guidance[1].BudgetRange.Min, 2500.0)
		gt.Equal(t, guidance[1].BudgetRange.Max, 3500.0)
	})

	t.Run("Foreign event", func(t *testing.T) {
		_, err := planner.RecommendVendors(ctx, types.UserID("usr_other"), event.ID)
		assertTag(t, err, model.ErrTagEventNotFound, "Event not found")
	})
}

func TestPlannerUseCase_OptimizeSchedule(t *testing.T) {
	ctx := newTestContext()
	planner := usecase.NewPlanner(repository.NewMemory())

	schedule, err := planner.OptimizeSchedule(ctx, " 18:30 ")
	gt.NoError(t, err).Required()
	gt.A(t, schedule.Timeline).Length(4)
	gt.Equal(t, schedule.Timeline[0].Time, "18:30")
	gt.Equal(t, schedule.Timeline[1].Time, "19:00")
	gt.Equal(t, schedule.Timeline[3].Time, "20:45")

	_, err = planner.OptimizeSchedule(ctx, "6pm")
	assertTag(t, err, model.ErrTagValidation, "Invalid start time format")
}
