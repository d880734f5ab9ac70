package usecase

import (
	"context"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
)

// AuthUseCase defines the interface for account and token operations
type AuthUseCase interface {
	// Register creates an account and signs it in
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResult, error)

	// Login verifies credentials and issues an access token
	Login(ctx context.Context, email, password string) (*model.AuthResult, error)

	// Logout revokes the session behind an access token
	Logout(ctx context.Context, sessionID types.SessionID) error

	// ValidateToken verifies an access token and returns the caller
	ValidateToken(ctx context.Context, token string) (*model.AuthContext, error)

	// GetUser returns the account of the caller
	GetUser(ctx context.Context, userID types.UserID) (*model.User, error)

	// UpdatePreferences changes the display preferences of the caller
	UpdatePreferences(ctx context.Context, userID types.UserID, update *model.PreferencesUpdate) (*model.User, error)
}

// EventUseCase defines the interface for organizer-scoped event management
type EventUseCase interface {
	ListEvents(ctx context.Context, organizerID types.UserID, filter *model.EventFilter) (*model.Page[*model.Event], error)
	CreateEvent(ctx context.Context, organizerID types.UserID, req *model.CreateEventRequest) (*model.Event, error)
	GetEvent(ctx context.Context, organizerID types.UserID, id types.EventID) (*model.Event, error)
	UpdateEvent(ctx context.Context, organizerID types.UserID, id types.EventID, req *model.UpdateEventRequest) (*model.Event, error)

	// DeleteEvent removes the event with its tasks
	DeleteEvent(ctx context.Context, organizerID types.UserID, id types.EventID) error
}

// TaskUseCase defines the interface for dashboard task management
type TaskUseCase interface {
	ListTasks(ctx context.Context, organizerID types.UserID, eventID types.EventID) ([]*model.Task, error)
	CreateTask(ctx context.Context, organizerID types.UserID, eventID types.EventID, req *model.CreateTaskRequest) (*model.Task, error)
	UpdateTask(ctx context.Context, organizerID types.UserID, taskID types.TaskID, req *model.UpdateTaskRequest) (*model.Task, error)
	DeleteTask(ctx context.Context, organizerID types.UserID, taskID types.TaskID) error
}

// DashboardUseCase defines the interface for the organizer dashboard
type DashboardUseCase interface {
	GetDashboard(ctx context.Context, organizerID types.UserID) (*model.DashboardView, error)
}

// MarketplaceUseCase defines the interface for vendor discovery
type MarketplaceUseCase interface {
	SearchVendors(ctx context.Context, search *model.VendorSearch) (*VendorSearchResult, error)

	// GetVendor returns an active vendor with its owner's contact details
	GetVendor(ctx context.Context, id types.VendorID) (*VendorDetail, error)

	ListCategories(ctx context.Context) ([]model.CategoryCount, error)
	FeaturedVendors(ctx context.Context) ([]*model.Vendor, error)
}

// VenueUseCase defines the interface for venue listings
type VenueUseCase interface {
	ListVenues(ctx context.Context, filter *model.VenueFilter) (*model.Page[*model.Venue], error)
	GetVenue(ctx context.Context, id types.VenueID) (*model.Venue, error)

	// CreateVenue lists a venue owned by the caller. Only venue owners may list venues.
	CreateVenue(ctx context.Context, caller *model.AuthContext, req *model.CreateVenueRequest) (*model.Venue, error)
}

// BookingUseCase defines the interface for vendor and venue bookings
type BookingUseCase interface {
	ListBookings(ctx context.Context, organizerID types.UserID, filter *model.BookingFilter) (*model.Page[*model.Booking], error)
	CreateBooking(ctx context.Context, organizerID types.UserID, req *model.CreateBookingRequest) (*model.Booking, error)
	GetBooking(ctx context.Context, organizerID types.UserID, id types.BookingID) (*model.Booking, error)
	UpdateBookingStatus(ctx context.Context, organizerID types.UserID, id types.BookingID, req *model.UpdateBookingStatusRequest) (*model.Booking, error)
}

// PaymentUseCase defines the interface for booking payments
type PaymentUseCase interface {
	CreatePaymentIntent(ctx context.Context, userID types.UserID, req *model.CreatePaymentIntentRequest) (*model.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, userID types.UserID, req *model.ConfirmPaymentRequest) (*model.PaymentConfirmation, error)

	// HandleWebhook authenticates and applies a payment gateway notification
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	PaymentHistory(ctx context.Context, userID types.UserID) ([]*model.PaymentRecord, error)
}

// PlannerUseCase defines the interface for AI planning helpers
type PlannerUseCase interface {
	DesignEvent(ctx context.Context, req *model.DesignRequest) (*model.DesignResult, error)
	RecommendVendors(ctx context.Context, organizerID types.UserID, eventID types.EventID) ([]model.VendorGuidance, error)
	OptimizeSchedule(ctx context.Context, startTime string) (*model.OptimizedSchedule, error)
}

// ARUseCase defines the interface for AR venue data
type ARUseCase interface {
	VenueARData(ctx context.Context, venueID types.VenueID) (*model.VenueARData, error)
	LayoutPreview(ctx context.Context, venueID types.VenueID, req model.LayoutRequest) (*model.LayoutPreview, error)
	VirtualTour(ctx context.Context, venueID types.VenueID) (*model.VirtualTour, error)
	OptimizeCapacity(ctx context.Context, req model.CapacityRequest) (*model.CapacityOptimization, error)
}

// LiveUseCase defines the interface for operations during a running event.
// Every method is scoped to an event owned by the organizer.
type LiveUseCase interface {
	Dashboard(ctx context.Context, organizerID types.UserID, eventID types.EventID) (*model.LiveDashboard, error)
	CheckIn(ctx context.Context, organizerID types.UserID, eventID types.EventID, req *model.CheckInRequest) (*model.CheckInResult, error)
	VendorStatuses(ctx context.Context, organizerID types.UserID, eventID types.EventID) ([]*model.VendorLiveView, error)
	UpdateVendorStatus(ctx context.Context, organizerID types.UserID, eventID types.EventID, vendorID types.VendorID, req model.VendorStatusRequest) (*model.VendorLiveView, error)
	RaiseAlert(ctx context.Context, organizerID types.UserID, eventID types.EventID, req model.AlertRequest) (*model.Alert, error)
	ListAlerts(ctx context.Context, organizerID types.UserID, eventID types.EventID) ([]*model.Alert, error)
	ResolveAlert(ctx context.Context, organizerID types.UserID, eventID types.EventID, alertID types.AlertID) (*model.Alert, error)
	ControlDevice(ctx context.Context, organizerID types.UserID, eventID types.EventID, req model.DeviceControlRequest) (*model.DeviceControlResult, error)

	// Subscribe returns a channel signalled whenever the event's live data
	// changes. The returned function releases the subscription.
	Subscribe(ctx context.Context, organizerID types.UserID, eventID types.EventID) (<-chan struct{}, func(), error)
}

// SeedUseCase defines the interface for loading initial data
type SeedUseCase interface {
	// Seed loads data into an empty repository. A repository that already
	// holds users is left untouched.
	Seed(ctx context.Context, data *model.SeedData) (*SeedSummary, error)
}
