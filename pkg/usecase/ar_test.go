package usecase_test

import (
	"testing"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/repository"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestARUseCase(t *testing.T) {
	ctx := newTestContext()
	repo := repository.NewMemory()
	ar := usecase.NewAR(repo)
	venue := putVenue(t, ctx, repo, "Harbor Hall", "San Francisco", 200)

	t.Run("Venue scene", func(t *testing.T) {
		data, err := ar.VenueARData(ctx, venue.ID)
		gt.NoError(t, err).Required()
		gt.NotNil(t, data)
	})

	t.Run("Layout defaults", func(t *testing.T) {
		preview, err := ar.LayoutPreview(ctx, venue.ID, model.LayoutRequest{})
		gt.NoError(t, err).Required()
		gt.Equal(t, preview.LayoutType, model.LayoutTheater)
		gt.Equal(t, preview.Capacity.Recommended, 100)
		gt.Equal(t, preview.Capacity.Maximum, 200)
		gt.Equal(t, preview.Capacity.Optimal, 100)
		gt.Equal(t, preview.Accessibility.AccessibleSeating, 2)
	})

	t.Run("Layout style is normalized", func(t *testing.T) {
		preview, err := ar.LayoutPreview(ctx, venue.ID, model.LayoutRequest{AttendeeCount: 190, LayoutStyle: " Banquet "})
		gt.NoError(t, err).Required()
		gt.Equal(t, preview.LayoutType, model.LayoutBanquet)
		gt.Equal(t, preview.Capacity.Optimal, 170)
	})

	t.Run("Attendee count is bounded", func(t *testing.T) {
		for _, style := range []string{"theater", "banquet", "cocktail"} {
			_, err := ar.LayoutPreview(ctx, venue.ID, model.LayoutRequest{AttendeeCount: 2000000000, LayoutStyle: style})
			assertTag(t, err, model.ErrTagValidation, "Attendee count must not exceed 100000")
		}

		preview, err := ar.LayoutPreview(ctx, venue.ID, model.LayoutRequest{AttendeeCount: 100000})
		gt.NoError(t, err).Required()
		gt.Equal(t, preview.Capacity.Recommended, 100000)
	})

	t.Run("Virtual tour", func(t *testing.T) {
		tour, err := ar.VirtualTour(ctx, venue.ID)
		gt.NoError(t, err).Required()
		gt.NotNil(t, tour)
	})

	t.Run("Unknown venue", func(t *testing.T) {
		_, err := ar.VenueARData(ctx, types.VenueID("ven_missing"))
		assertTag(t, err, model.ErrTagVenueNotFound, "Venue not found")
		_, err = ar.LayoutPreview(ctx, types.VenueID("ven_missing"), model.LayoutRequest{})
		assertTag(t, err, model.ErrTagVenueNotFound, "Venue not found")
		_, err = ar.VirtualTour(ctx, types.VenueID("ven_missing"))
		assertTag(t, err, model.ErrTagVenueNotFound, "Venue not found")
	})
}

func TestARUseCase_OptimizeCapacity(t *testing.T) {
	ctx := newTestContext()
	repo := repository.NewMemory()
	ar := usecase.NewAR(repo)
	venue := putVenue(t, ctx, repo, "Harbor Hall", "San Francisco", 200)

	t.Run("Venue ID is required", func(t *testing.T) {
		_, err := ar.OptimizeCapacity(ctx, model.CapacityRequest{})
		assertTag(t, err, model.ErrTagValidation, "Venue ID is required")
	})

	t.Run("Default target", func(t *testing.T) {
		result, err := ar.OptimizeCapacity(ctx, model.CapacityRequest{VenueID: venue.ID.String()})
		gt.NoError(t, err).Required()
		gt.Equal(t, result.Analysis.RequestedCapacity, 100)
		gt.Equal(t, result.Analysis.RecommendedCapacity, 100)
		gt.Equal(t, result.Analysis.UtilizationRate, 50.0)
		gt.A(t, result.Warnings).Length(0)
		gt.Equal(t, result.Optimizations[0].Recommendation, "Use theater layout for maximum efficiency")
	})

	t.Run("Over capacity", func(t *testing.T) {
		result, err := ar.OptimizeCapacity(ctx, model.CapacityRequest{
			VenueID:        venue.ID.String(),
			TargetCapacity: 250,
			EventType:      "wedding",
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, result.Analysis.RecommendedCapacity, 170)
		gt.A(t, result.Warnings).Length(2)
		gt.Equal(t, result.Warnings[0].Type, "overcapacity")
		gt.Equal(t, result.Warnings[1].Type, "comfort")
		gt.Equal(t, result.Optimizations[0].Recommendation, "Use banquet layout for maximum efficiency")
	})
}
