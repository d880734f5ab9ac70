package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// SeedSummary reports what a seed run created
type SeedSummary struct {
	Skipped  bool
	Users    int
	Vendors  int
	Venues   int
	Events   int
	Bookings int
	Tasks    int
}

// Seed implements SeedUseCase
type Seed struct {
	repo interfaces.Repository
	now  func() time.Time
}

// NewSeed creates a new Seed use case
func NewSeed(repo interfaces.Repository) SeedUseCase {
	return &Seed{repo: repo, now: time.Now}
}

func floatOrNil(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func intOrNil(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

// Seed loads data into an empty repository
func (u *Seed) Seed(ctx context.Context, data *model.SeedData) (*SeedSummary, error) {
	logger := ctxlog.From(ctx)

	if data == nil {
		return nil, goerr.New("seed data is nil")
	}
	if err := data.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid seed data")
	}

	count, err := u.repo.CountUsers(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count users")
	}
	if count > 0 {
		logger.Info("Repository already has data, skipping seed", "users", count)
		return &SeedSummary{Skipped: true}, nil
	}

	now := u.now()
	summary := &SeedSummary{}

	users := make(map[string]*model.User, len(data.Users))
	for _, su := range data.Users {
		user := model.NewUser(model.NormalizeEmail(su.Email), su.FirstName, su.LastName, types.Role(su.Role))
		if err := user.SetPassword(su.Password); err != nil {
			return nil, goerr.Wrap(err, "failed to hash seed password", goerr.V("email", su.Email))
		}
		user.IsVerified = su.Verified
		if su.Timezone != "" {
			user.Preferences.Timezone = su.Timezone
		}
		if su.Business != nil {
			user.BusinessProfile = &model.BusinessProfile{
				BusinessName: su.Business.Name,
				BusinessType: su.Business.Type,
				Description:  su.Business.Description,
				Website:      su.Business.Website,
				Phone:        su.Business.Phone,
				Address:      su.Business.Address,
				City:         su.Business.City,
				Country:      su.Business.Country,
			}
		}
		if err := u.repo.SaveUser(ctx, user); err != nil {
			return nil, goerr.Wrap(err, "failed to save seed user", goerr.V("email", su.Email))
		}
		users[su.Key] = user
		summary.Users++
	}

	for _, sv := range data.Vendors {
		vendor := model.NewVendor(users[sv.Owner].ID, sv.BusinessName, sv.Category)
		vendor.Description = sv.Description
		vendor.ServiceAreas = append([]string{}, sv.ServiceAreas...)
		vendor.StartingPrice = floatOrNil(sv.StartingPrice)
		if sv.Currency != "" {
			vendor.Currency = strings.ToUpper(sv.Currency)
		}
		vendor.AverageRating = sv.Rating
		vendor.TotalReviews = sv.Reviews
		vendor.ResponseTimeHours = sv.ResponseHours
		vendor.IsVerified = sv.Verified
		if err := u.repo.PutVendor(ctx, vendor); err != nil {
			return nil, goerr.Wrap(err, "failed to save seed vendor", goerr.V("vendor", sv.BusinessName))
		}
		summary.Vendors++
	}

	venues := make(map[string]*model.Venue, len(data.Venues))
	for _, sv := range data.Venues {
		venue := &model.Venue{
			ID:            types.NewVenueID(),
			Name:          sv.Name,
			Description:   sv.Description,
			Type:          sv.Type,
			Address:       sv.Address,
			City:          sv.City,
			Country:       sv.Country,
			CapacityMin:   intOrNil(sv.CapacityMin),
			CapacityMax:   intOrNil(sv.CapacityMax),
			HourlyRate:    floatOrNil(sv.HourlyRate),
			DailyRate:     floatOrNil(sv.DailyRate),
			Currency:      "USD",
			Amenities:     append([]string{}, sv.Amenities...),
			AverageRating: sv.Rating,
			TotalReviews:  sv.Reviews,
			IsActive:      true,
			CreatedAt:     now,
		}
		if sv.Owner != "" {
			venue.OwnerID = users[sv.Owner].ID
		}
		if sv.Currency != "" {
			venue.Currency = strings.ToUpper(sv.Currency)
		}
		if sv.Latitude != nil && sv.Longitude != nil {
			venue.Coordinates = &model.Coordinates{Latitude: *sv.Latitude, Longitude: *sv.Longitude}
		}
		if err := u.repo.PutVenue(ctx, venue); err != nil {
			return nil, goerr.Wrap(err, "failed to save seed venue", goerr.V("venue", sv.Name))
		}
		venues[sv.Name] = venue
		summary.Venues++
	}

	for _, se := range data.Events {
		organizer := users[se.Organizer]
		start := now.AddDate(0, 0, se.StartInDays).Truncate(time.Hour)
		end := start.Add(time.Duration(se.DurationHours) * time.Hour)

		event, err := model.NewEvent(organizer.ID, se.Title, se.Type, start, end)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to build seed event", goerr.V("event", se.Title))
		}
		event.Description = se.Description
		event.Category = se.Category
		event.ExpectedAttendees = intOrNil(se.Expected)
		event.Capacity = intOrNil(se.Capacity)
		event.TotalBudget = floatOrNil(se.Budget)
		if se.Currency != "" {
			event.Currency = strings.ToUpper(se.Currency)
		}
		if se.Status != "" {
			event.Status = types.EventStatus(se.Status)
		}
		if se.Visibility != "" {
			event.Visibility = types.Visibility(se.Visibility)
		}
		if err := u.repo.PutEvent(ctx, event); err != nil {
			return nil, goerr.Wrap(err, "failed to save seed event", goerr.V("event", se.Title))
		}
		summary.Events++

		if venue, ok := venues[se.Venue]; ok {
			booking := &model.Booking{
				ID:             types.NewBookingID(),
				EventID:        event.ID,
				VenueID:        venue.ID,
				ServiceName:    "Venue rental",
				Specifications: map[string]any{},
				Status:         types.BookingStatusConfirmed,
				ServiceDate:    start,
				QuotedPrice:    venue.DailyRate,
				Currency:       venue.Currency,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := u.repo.PutBooking(ctx, booking); err != nil {
				return nil, goerr.Wrap(err, "failed to save seed booking", goerr.V("event", se.Title))
			}
			summary.Bookings++
		}

		for _, st := range se.Tasks {
			task, err := model.NewTask(event.ID, organizer.ID, st.Title,
				now.AddDate(0, 0, st.DueInDays).Truncate(24*time.Hour), types.TaskPriority(st.Priority))
			if err != nil {
				return nil, goerr.Wrap(err, "failed to build seed task", goerr.V("task", st.Title))
			}
			if st.Completed {
				if err := task.UpdateStatus(types.TaskStatusCompleted); err != nil {
					return nil, goerr.Wrap(err, "failed to complete seed task", goerr.V("task", st.Title))
				}
			}
			if err := u.repo.PutTask(ctx, task); err != nil {
				return nil, goerr.Wrap(err, "failed to save seed task", goerr.V("task", st.Title))
			}
			summary.Tasks++
		}
	}

	logger.Info("Seeded repository",
		"users", summary.Users,
		"vendors", summary.Vendors,
		"venues", summary.Venues,
		"events", summary.Events,
		"bookings", summary.Bookings,
		"tasks", summary.Tasks,
	)
	return summary, nil
}
