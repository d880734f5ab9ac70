package interfaces

import (
	"context"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
)

// Repository defines the interface for data persistence.
// Get methods return the entity's not-found sentinel from model when absent.
type Repository interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id types.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CountUsers(ctx context.Context) (int, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id types.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id types.SessionID) error

	// Event operations
	PutEvent(ctx context.Context, event *model.Event) error
	GetEvent(ctx context.Context, id types.EventID) (*model.Event, error)
	DeleteEvent(ctx context.Context, id types.EventID) error
	ListEventsByOrganizer(ctx context.Context, organizerID types.UserID) ([]*model.Event, error)

	// Vendor operations
	PutVendor(ctx context.Context, vendor *model.Vendor) error
	GetVendor(ctx context.Context, id types.VendorID) (*model.Vendor, error)
	ListVendors(ctx context.Context) ([]*model.Vendor, error)

	// Venue operations
	PutVenue(ctx context.Context, venue *model.Venue) error
	GetVenue(ctx context.Context, id types.VenueID) (*model.Venue, error)
	ListVenues(ctx context.Context) ([]*model.Venue, error)

	// Booking operations
	PutBooking(ctx context.Context, booking *model.Booking) error
	GetBooking(ctx context.Context, id types.BookingID) (*model.Booking, error)
	ListBookingsByEvent(ctx context.Context, eventID types.EventID) ([]*model.Booking, error)

	// Task operations
	PutTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id types.TaskID) (*model.Task, error)
	DeleteTask(ctx context.Context, id types.TaskID) error
	ListTasksByEvent(ctx context.Context, eventID types.EventID) ([]*model.Task, error)
	ListTasksByOrganizer(ctx context.Context, organizerID types.UserID) ([]*model.Task, error)

	// Payment operations
	PutPaymentIntent(ctx context.Context, intent *model.PaymentIntent) error
	GetPaymentIntent(ctx context.Context, id types.PaymentIntentID) (*model.PaymentIntent, error)

	// Live event operations
	// CreateCheckIn stores checkIn unless its guest already checked in to the
	// event, and returns the stored record either way.
	CreateCheckIn(ctx context.Context, checkIn *model.CheckIn) (*model.CheckIn, error)
	ListCheckIns(ctx context.Context, eventID types.EventID) ([]*model.CheckIn, error)
	PutAlert(ctx context.Context, alert *model.Alert) error
	GetAlert(ctx context.Context, eventID types.EventID, id types.AlertID) (*model.Alert, error)
	ListAlerts(ctx context.Context, eventID types.EventID) ([]*model.Alert, error)
	PutDeviceState(ctx context.Context, state *model.DeviceState) error
	ListDeviceStates(ctx context.Context, eventID types.EventID) ([]*model.DeviceState, error)
	PutVendorCheckpoint(ctx context.Context, checkpoint *model.VendorCheckpoint) error
	ListVendorCheckpoints(ctx context.Context, eventID types.EventID) ([]*model.VendorCheckpoint, error)

	// Close closes the repository connection
	Close() error
}
