package usecase_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
)

const testPassword = "password123"

func newTestContext() context.Context {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return ctxlog.With(context.Background(), logger)
}

func newTestAuth(ctx context.Context, repo interfaces.Repository) usecase.AuthUseCase {
	return usecase.NewAuth(ctx, repo, usecase.WithTokenSecret([]byte("test-secret")))
}

func registerUser(t *testing.T, ctx context.Context, auth usecase.AuthUseCase, email string, role types.Role) *model.AuthResult {
	t.Helper()
	req := &model.RegisterRequest{
		Email:     email,
		Password:  testPassword,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	if role == types.RoleVendor || role == types.RoleVenueOwner {
		req.BusinessInfo = &model.BusinessInfo{
			CompanyName:  "Test Business",
			BusinessType: "photography",
			Location:     "San Francisco, USA",
		}
	}
	result, err := auth.Register(ctx, req)
	gt.NoError(t, err).Required()
	return result
}

func createTestEvent(t *testing.T, ctx context.Context, events usecase.EventUseCase, organizerID types.UserID, title string, start time.Time) *model.Event {
	t.Helper()
	budget := 10000.0
	expected := 80
	event, err := events.CreateEvent(ctx, organizerID, &model.CreateEventRequest{
		Title:             title,
		Type:              "conference",
		StartDate:         start.UTC().Format(time.RFC3339),
		EndDate:           start.Add(8 * time.Hour).UTC().Format(time.RFC3339),
		TotalBudget:       &budget,
		ExpectedAttendees: &expected,
	})
	gt.NoError(t, err).Required()
	return event
}

func putVendor(t *testing.T, ctx context.Context, repo interfaces.Repository, name, category string, rating float64, reviews int) *model.Vendor {
	t.Helper()
	vendor := model.NewVendor(types.UserID("usr_owner"), name, category)
	vendor.AverageRating = rating
	vendor.TotalReviews = reviews
	gt.NoError(t, repo.PutVendor(ctx, vendor)).Required()
	return vendor
}

func putVenue(t *testing.T, ctx context.Context, repo interfaces.Repository, name, city string, capacityMax int) *model.Venue {
	t.Helper()
	daily := 5000.0
	venue := &model.Venue{
		ID:          types.NewVenueID(),
		Name:        name,
		Type:        "conference_center",
		City:        city,
		Country:     "USA",
		CapacityMax: &capacityMax,
		DailyRate:   &daily,
		Currency:    "USD",
		Amenities:   []string{},
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	gt.NoError(t, repo.PutVenue(ctx, venue)).Required()
	return venue
}

func assertTag(t *testing.T, err error, tag fmt.Stringer, message string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	gt.True(t, model.HasTag(err, tag))
	if message != "" {
		gt.Equal(t, model.RootMessage(err), message)
	}
}
