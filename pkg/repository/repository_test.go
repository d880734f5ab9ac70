package repository_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/repository"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
)

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func newTestEvent(t *testing.T, organizerID types.UserID, title string, created time.Time) *model.Event {
	t.Helper()
	start := created.Add(72 * time.Hour)
	event, err := model.NewEvent(organizerID, title, "conference", start, start.Add(8*time.Hour))
	gt.NoError(t, err).Required()
	event.CreatedAt = created
	event.UpdatedAt = created
	return event
}

func testRepository(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("SaveAndGetUser", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		user := model.NewUser(uniqueEmail("save"), "Ada", "Lovelace", types.RoleEventManager)
		gt.NoError(t, user.SetPassword("password123"))

		gt.NoError(t, repo.SaveUser(ctx, user))

		retrieved, err := repo.GetUser(ctx, user.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrieved.ID, user.ID)
		gt.Equal(t, retrieved.Email, user.Email)
		gt.Equal(t, retrieved.FirstName, "Ada")
		gt.Equal(t, retrieved.Role, types.RoleEventManager)
		gt.True(t, retrieved.CheckPassword("password123"))
		gt.Equal(t, retrieved.Preferences.Currency, user.Preferences.Currency)

		byEmail, err := repo.GetUserByEmail(ctx, user.Email)
		gt.NoError(t, err)
		gt.Equal(t, byEmail.ID, user.ID)
	})

	t.Run("GetUserByEmail_CaseInsensitive", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		user := model.NewUser(uniqueEmail("case"), "Grace", "Hopper", types.RoleVendor)
		gt.NoError(t, repo.SaveUser(ctx, user))

		retrieved, err := repo.GetUserByEmail(ctx, "  "+user.Email+"  ")
		gt.NoError(t, err)
		gt.Equal(t, retrieved.ID, user.ID)
	})

	t.Run("GetUser_NotFound", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		_, err := repo.GetUser(ctx, types.NewUserID())
		gt.Error(t, err)
		gt.True(t, model.HasTag(err, model.ErrTagUserNotFound))

		_, err = repo.GetUserByEmail(ctx, uniqueEmail("missing"))
		gt.Error(t, err)
		gt.True(t, model.HasTag(err, model.ErrTagUserNotFound))
	})

	t.Run("Session", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		session, err := model.NewSession(types.NewUserID(), time.Hour)
		gt.NoError(t, err)
		gt.NoError(t, repo.SaveSession(ctx, session))

		retrieved, err := repo.GetSession(ctx, session.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrieved.UserID, session.UserID)
		gt.True(t, session.ExpiresAt.Sub(retrieved.ExpiresAt).Abs() < time.Second)

		gt.NoError(t, repo.DeleteSession(ctx, session.ID))
		_, err = repo.GetSession(ctx, session.ID)
		gt.Error(t, err)
		gt.True(t, model.HasTag(err, model.ErrTagUnauthorized))
	})

	t.Run("Events", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		organizerID := types.NewUserID()
		base := time.Now().UTC().Truncate(time.Second)

		second := newTestEvent(t, organizerID, "Second", base.Add(time.Minute))
		first := newTestEvent(t, organizerID, "First", base)
		other := newTestEvent(t, types.NewUserID(), "Other", base)
		budget := 50000.0
		first.TotalBudget = &budget

		for _, e := range []*model.Event{second, first, other} {
			gt.NoError(t, repo.PutEvent(ctx, e))
		}

		events, err := repo.ListEventsByOrganizer(ctx, organizerID)
		gt.NoError(t, err)
		gt.A(t, events).Length(2)
		gt.Equal(t, events[0].Title, "First")
		gt.Equal(t, events[1].Title, "Second")
		gt.NotNil(t, events[0].TotalBudget)
		gt.Equal(t, *events[0].TotalBudget, 50000.0)

		first.Title = "First Renamed"
		gt.NoError(t, repo.PutEvent(ctx, first))
		retrieved, err := repo.GetEvent(ctx, first.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrieved.Title, "First Renamed")
		gt.True(t, retrieved.StartDate.Equal(first.StartDate))

		gt.NoError(t, repo.DeleteEvent(ctx, first.ID))
		_, err = repo.GetEvent(ctx, first.ID)
		gt.Error(t, err)
		gt.True(t, model.HasTag(err, model.ErrTagEventNotFound))
	})

	t.Run("Tasks", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		organizerID := types.NewUserID()
		eventA := types.NewEventID()
		eventB := types.NewEventID()
		now := time.Now().UTC()

		late, err := model.NewTask(eventA, organizerID, "Late", now.Add(48*time.Hour), types.TaskPriorityLow)
		gt.NoError(t, err)
		early, err := model.NewTask(eventA, organizerID, "Early", now.Add(24*time.Hour), types.TaskPriorityHigh)
		gt.NoError(t, err)
		otherEvent, err := model.NewTask(eventB, organizerID, "Other", now.Add(time.Hour), "")
		gt.NoError(t, err)

		for _, task := range []*model.Task{late, early, otherEvent} {
			gt.NoError(t, repo.PutTask(ctx, task))
		}

		byEvent, err := repo.ListTasksByEvent(ctx, eventA)
		gt.NoError(t, err)
		gt.A(t, byEvent).Length(2)
		gt.Equal(t, byEvent[0].Title, "Early")
		gt.Equal(t, byEvent[1].Title, "Late")

		byOrganizer, err := repo.ListTasksByOrganizer(ctx, organizerID)
		gt.NoError(t, err)
		gt.A(t, byOrganizer).Length(3)
		gt.Equal(t, byOrganizer[0].Title, "Other")

		gt.NoError(t, early.UpdateStatus(types.TaskStatusCompleted))
		gt.NoError(t, repo.PutTask(ctx, early))
		retrieved, err := repo.GetTask(ctx, early.ID)
		gt.NoError(t, err)
		gt.True(t, retrieved.IsCompleted())
		gt.NotNil(t, retrieved.CompletedAt)

		gt.NoError(t, repo.DeleteTask(ctx, early.ID))
		_, err = repo.GetTask(ctx, early.ID)
		gt.True(t, model.HasTag(err, model.ErrTagTaskNotFound))
	})

	t.Run("VendorsAndVenues", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		price := 1500.0
		vendor := model.NewVendor(types.NewUserID(), fmt.Sprintf("Bloom %d", time.Now().UnixNano()), "florist")
		vendor.StartingPrice = &price
		vendor.ServiceAreas = []string{"Lisbon", "Porto"}
		gt.NoError(t, repo.PutVendor(ctx, vendor))

		retrievedVendor, err := repo.GetVendor(ctx, vendor.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrievedVendor.BusinessName, vendor.BusinessName)
		gt.A(t, retrievedVendor.ServiceAreas).Length(2)
		gt.Equal(t, *retrievedVendor.StartingPrice, 1500.0)

		vendors, err := repo.ListVendors(ctx)
		gt.NoError(t, err)
		found := false
		for _, v := range vendors {
			if v.ID == vendor.ID {
				found = true
			}
		}
		gt.True(t, found)

		capacity := 300
		venue := &model.Venue{
			ID:          types.NewVenueID(),
			OwnerID:     types.NewUserID(),
			Name:        "Harbour Hall",
			Type:        "conference_center",
			City:        "Lisbon",
			Country:     "Portugal",
			Coordinates: &model.Coordinates{Latitude: 38.7, Longitude: -9.1},
			CapacityMax: &capacity,
			Amenities:   []string{"wifi", "stage"},
			Currency:    "EUR",
			IsActive:    true,
			CreatedAt:   time.Now().UTC(),
		}
		gt.NoError(t, repo.PutVenue(ctx, venue))

		retrievedVenue, err := repo.GetVenue(ctx, venue.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrievedVenue.Name, "Harbour Hall")
		gt.Equal(t, retrievedVenue.MaxCapacity(), 300)
		gt.NotNil(t, retrievedVenue.Coordinates)
		gt.Equal(t, retrievedVenue.Coordinates.Latitude, 38.7)

		_, err = repo.GetVendor(ctx, types.NewVendorID())
		gt.True(t, model.HasTag(err, model.ErrTagVendorNotFound))
		_, err = repo.GetVenue(ctx, types.NewVenueID())
		gt.True(t, model.HasTag(err, model.ErrTagVenueNotFound))
	})

	t.Run("Bookings", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		eventID := types.NewEventID()
		now := time.Now().UTC()
		quoted := 800.0

		booking := &model.Booking{
			ID:             types.NewBookingID(),
			EventID:        eventID,
			VendorID:       types.NewVendorID(),
			ServiceName:    "Catering",
			Specifications: map[string]any{"guests": "120"},
			Status:         types.BookingStatusQuoted,
			ServiceDate:    now.Add(240 * time.Hour),
			QuotedPrice:    &quoted,
			Currency:       "USD",
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		gt.NoError(t, repo.PutBooking(ctx, booking))
		gt.NoError(t, repo.PutBooking(ctx, &model.Booking{
			ID:        types.NewBookingID(),
			EventID:   types.NewEventID(),
			Status:    types.BookingStatusInquiry,
			CreatedAt: now,
			UpdatedAt: now,
		}))

		retrieved, err := repo.GetBooking(ctx, booking.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrieved.Status, types.BookingStatusQuoted)
		gt.Equal(t, *retrieved.QuotedPrice, 800.0)
		gt.Equal(t, retrieved.Specifications["guests"], any("120"))

		bookings, err := repo.ListBookingsByEvent(ctx, eventID)
		gt.NoError(t, err)
		gt.A(t, bookings).Length(1)
		gt.Equal(t, bookings[0].ID, booking.ID)

		_, err = repo.GetBooking(ctx, types.NewBookingID())
		gt.True(t, model.HasTag(err, model.ErrTagBookingNotFound))
	})

	t.Run("PaymentIntent", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		intent := &model.PaymentIntent{
			ID:        types.NewPaymentIntentID(),
			Amount:    125050,
			Currency:  "usd",
			Status:    types.PaymentStatusRequiresConfirmation,
			UserID:    types.NewUserID(),
			BookingID: types.NewBookingID(),
			CreatedAt: time.Now().UTC(),
		}
		gt.NoError(t, repo.PutPaymentIntent(ctx, intent))

		retrieved, err := repo.GetPaymentIntent(ctx, intent.ID)
		gt.NoError(t, err)
		gt.Equal(t, retrieved.Amount, int64(125050))
		gt.Equal(t, retrieved.BookingID, intent.BookingID)
		gt.Equal(t, retrieved.Status, types.PaymentStatusRequiresConfirmation)

		_, err = repo.GetPaymentIntent(ctx, types.NewPaymentIntentID())
		gt.Error(t, err)
		gt.True(t, model.HasTag(err, model.ErrTagPaymentError))
	})

	t.Run("LiveRecords", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		eventID := types.NewEventID()
		now := time.Now().UTC()

		for i, name := range []string{"Bea", "Al"} {
			checkIn := &model.CheckIn{
				ID:          types.NewCheckInID(),
				EventID:     eventID,
				GuestID:     fmt.Sprintf("guest-%d", i),
				GuestName:   name,
				CheckedInAt: now.Add(time.Duration(i) * time.Minute),
			}
			stored, err := repo.CreateCheckIn(ctx, checkIn)
			gt.NoError(t, err).Required()
			gt.Equal(t, stored.ID, checkIn.ID)
		}

		repeat, err := repo.CreateCheckIn(ctx, &model.CheckIn{
			ID:          types.NewCheckInID(),
			EventID:     eventID,
			GuestID:     "guest-0",
			GuestName:   "Imposter",
			CheckedInAt: now.Add(time.Hour),
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, repeat.GuestName, "Bea")

		checkIns, err := repo.ListCheckIns(ctx, eventID)
		gt.NoError(t, err)
		gt.A(t, checkIns).Length(2)
		gt.Equal(t, checkIns[0].GuestName, "Bea")
		gt.Equal(t, checkIns[0].ID, repeat.ID)

		older := model.NewAlert(eventID, model.AlertRequest{Message: "Doors open"})
		older.CreatedAt = now.Add(-time.Minute)
		newer := model.NewAlert(eventID, model.AlertRequest{Message: "Keynote starting", Severity: "high"})
		newer.CreatedAt = now
		gt.NoError(t, repo.PutAlert(ctx, older))
		gt.NoError(t, repo.PutAlert(ctx, newer))

		alerts, err := repo.ListAlerts(ctx, eventID)
		gt.NoError(t, err)
		gt.A(t, alerts).Length(2)
		gt.Equal(t, alerts[0].ID, newer.ID)

		older.Resolve(now)
		gt.NoError(t, repo.PutAlert(ctx, older))
		resolved, err := repo.GetAlert(ctx, eventID, older.ID)
		gt.NoError(t, err)
		gt.True(t, resolved.IsResolved())
		gt.NotNil(t, resolved.ResolvedAt)

		_, err = repo.GetAlert(ctx, types.NewEventID(), older.ID)
		gt.Error(t, err)

		state, _ := model.ApplyDeviceControl(eventID, nil, model.DeviceControlRequest{
			DeviceType: "lighting",
			Action:     "set_scene",
			Parameters: map[string]any{"mode": "dinner"},
		}, now)
		gt.NoError(t, repo.PutDeviceState(ctx, state))
		state.LastAction = "dim"
		gt.NoError(t, repo.PutDeviceState(ctx, state))

		states, err := repo.ListDeviceStates(ctx, eventID)
		gt.NoError(t, err)
		gt.A(t, states).Length(1)
		gt.Equal(t, states[0].LastAction, "dim")
		gt.Equal(t, states[0].State["mode"], any("dinner"))

		vendorID := types.NewVendorID()
		checkpoint := &model.VendorCheckpoint{
			EventID:       eventID,
			VendorID:      vendorID,
			Status:        types.VendorLiveStatusArrived,
			SetupProgress: 40,
			ArrivalTime:   &now,
			UpdatedAt:     now,
		}
		gt.NoError(t, repo.PutVendorCheckpoint(ctx, checkpoint))
		checkpoint.SetupProgress = 100
		checkpoint.Status = types.VendorLiveStatusSetupComplete
		gt.NoError(t, repo.PutVendorCheckpoint(ctx, checkpoint))

		checkpoints, err := repo.ListVendorCheckpoints(ctx, eventID)
		gt.NoError(t, err)
		gt.A(t, checkpoints).Length(1)
		gt.Equal(t, checkpoints[0].SetupProgress, 100)
		gt.Equal(t, checkpoints[0].Status, types.VendorLiveStatusSetupComplete)
		gt.NotNil(t, checkpoints[0].ArrivalTime)
	})

	t.Run("RejectsInvalidInput", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		gt.Error(t, repo.SaveUser(ctx, nil))
		gt.Error(t, repo.SaveUser(ctx, &model.User{}))
		gt.Error(t, repo.PutEvent(ctx, &model.Event{}))
		gt.Error(t, repo.PutAlert(ctx, &model.Alert{ID: types.NewAlertID()}))
		gt.Error(t, repo.PutDeviceState(ctx, &model.DeviceState{EventID: types.NewEventID()}))
		_, err := repo.CreateCheckIn(ctx, &model.CheckIn{ID: types.NewCheckInID(), EventID: types.NewEventID()})
		gt.Error(t, err)
	})
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		return repository.NewMemory()
	})
}

func TestMemoryRepository_CountUsers(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	n, err := repo.CountUsers(ctx)
	gt.NoError(t, err)
	gt.Equal(t, n, 0)

	gt.NoError(t, repo.SaveUser(ctx, model.NewUser(uniqueEmail("one"), "A", "B", types.RoleEventManager)))
	gt.NoError(t, repo.SaveUser(ctx, model.NewUser(uniqueEmail("two"), "C", "D", types.RoleVendor)))

	n, err = repo.CountUsers(ctx)
	gt.NoError(t, err)
	gt.Equal(t, n, 2)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	event := newTestEvent(t, types.NewUserID(), "Original", time.Now())
	gt.NoError(t, repo.PutEvent(ctx, event))

	event.Title = "Mutated after save"
	retrieved, err := repo.GetEvent(ctx, event.ID)
	gt.NoError(t, err)
	gt.Equal(t, retrieved.Title, "Original")

	retrieved.Title = "Mutated after get"
	again, err := repo.GetEvent(ctx, event.ID)
	gt.NoError(t, err)
	gt.Equal(t, again.Title, "Original")
}

func TestSQLiteRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		repo, err := repository.NewSQLiteMemory(context.Background())
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestSQLiteFileRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		repo, err := repository.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "eventgrid.db"))
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestSQLiteRepository_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo, err := repository.NewSQLite(ctx, filepath.Join(t.TempDir(), "concurrent.db"))
	gt.NoError(t, err).Required()
	defer repo.Close()

	const writers, perWriter = 16, 10
	eventID := types.NewEventID()
	errs := make(chan error, writers*perWriter)
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				_, err := repo.CreateCheckIn(ctx, &model.CheckIn{
					ID:          types.NewCheckInID(),
					EventID:     eventID,
					GuestID:     fmt.Sprintf("guest-%d-%d", w, i),
					GuestName:   "Walk-in",
					CheckedInAt: time.Now().UTC(),
				})
				if err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent write failed: %v", err)
	}
	checkIns, err := repo.ListCheckIns(ctx, eventID)
	gt.NoError(t, err).Required()
	gt.A(t, checkIns).Length(writers * perWriter)
}

func TestSQLiteRepository_ConcurrentDuplicateCheckIn(t *testing.T) {
	ctx := context.Background()
	repo, err := repository.NewSQLite(ctx, filepath.Join(t.TempDir(), "duplicate.db"))
	gt.NoError(t, err).Required()
	defer repo.Close()

	const attempts = 16
	eventID := types.NewEventID()
	stored := make(chan types.CheckInID, attempts)
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checkIn, err := repo.CreateCheckIn(ctx, &model.CheckIn{
				ID:          types.NewCheckInID(),
				EventID:     eventID,
				GuestID:     "guest-rush",
				CheckedInAt: time.Now().UTC(),
			})
			if err != nil {
				t.Error(err)
				return
			}
			stored <- checkIn.ID
		}()
	}
	wg.Wait()
	close(stored)

	ids := map[types.CheckInID]struct{}{}
	for id := range stored {
		ids[id] = struct{}{}
	}
	gt.Equal(t, len(ids), 1)

	checkIns, err := repo.ListCheckIns(ctx, eventID)
	gt.NoError(t, err).Required()
	gt.A(t, checkIns).Length(1)
}

func TestSQLiteRepository_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "eventgrid.db")

	repo, err := repository.NewSQLite(ctx, path)
	gt.NoError(t, err).Required()

	user := model.NewUser(uniqueEmail("file"), "Persisted", "User", types.RoleVenueOwner)
	gt.NoError(t, repo.SaveUser(ctx, user))
	gt.NoError(t, repo.Close())

	reopened, err := repository.NewSQLite(ctx, path)
	gt.NoError(t, err).Required()
	defer reopened.Close()

	retrieved, err := reopened.GetUser(ctx, user.ID)
	gt.NoError(t, err)
	gt.Equal(t, retrieved.FirstName, "Persisted")

	n, err := reopened.CountUsers(ctx)
	gt.NoError(t, err)
	gt.Equal(t, n, 1)
}

func TestFirestoreRepository(t *testing.T) {
	projectID := os.Getenv("EVENTGRID_TEST_FIRESTORE_PROJECT")
	databaseID := os.Getenv("EVENTGRID_TEST_FIRESTORE_DATABASE")

	if projectID == "" || databaseID == "" {
		t.Skip("Skipping Firestore test: EVENTGRID_TEST_FIRESTORE_PROJECT and EVENTGRID_TEST_FIRESTORE_DATABASE must be set")
	}

	testRepository(t, func(t *testing.T) interfaces.Repository {
		ctx := context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		ctx = ctxlog.With(ctx, logger)

		repo, err := repository.NewFirestore(ctx, projectID, databaseID)
		gt.NoError(t, err)
		return repo
	})
}
