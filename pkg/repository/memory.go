package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type deviceKey struct {
	eventID    types.EventID
	deviceType types.DeviceType
}

type checkpointKey struct {
	eventID  types.EventID
	vendorID types.VendorID
}

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu          sync.RWMutex
	users       map[types.UserID]*model.User
	sessions    map[types.SessionID]*model.Session
	events      map[types.EventID]*model.Event
	vendors     map[types.VendorID]*model.Vendor
	venues      map[types.VenueID]*model.Venue
	bookings    map[types.BookingID]*model.Booking
	tasks       map[types.TaskID]*model.Task
	payments    map[types.PaymentIntentID]*model.PaymentIntent
	checkIns    map[types.EventID]map[string]*model.CheckIn
	alerts      map[types.EventID]map[types.AlertID]*model.Alert
	devices     map[deviceKey]*model.DeviceState
	checkpoints map[checkpointKey]*model.VendorCheckpoint
}

var _ interfaces.Repository = (*Memory)(nil)

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		users:       make(map[types.UserID]*model.User),
		sessions:    make(map[types.SessionID]*model.Session),
		events:      make(map[types.EventID]*model.Event),
		vendors:     make(map[types.VendorID]*model.Vendor),
		venues:      make(map[types.VenueID]*model.Venue),
		bookings:    make(map[types.BookingID]*model.Booking),
		tasks:       make(map[types.TaskID]*model.Task),
		payments:    make(map[types.PaymentIntentID]*model.PaymentIntent),
		checkIns:    make(map[types.EventID]map[string]*model.CheckIn),
		alerts:      make(map[types.EventID]map[types.AlertID]*model.Alert),
		devices:     make(map[deviceKey]*model.DeviceState),
		checkpoints: make(map[checkpointKey]*model.VendorCheckpoint),
	}
}

// SaveUser saves a user to memory
func (m *Memory) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return goerr.New("user is nil")
	}
	if user.ID == "" {
		return goerr.New("user ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[user.ID] = user.Copy()
	return nil
}

// GetUser retrieves a user by ID
func (m *Memory) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	if id == "" {
		return nil, goerr.New("user ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrUserNotFound, "user not in memory", goerr.V("userID", id))
	}
	return user.Copy(), nil
}

// GetUserByEmail retrieves a user by email address
func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, goerr.New("email is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			return user.Copy(), nil
		}
	}
	return nil, goerr.Wrap(model.ErrUserNotFound, "user not in memory", goerr.V("email", email))
}

// CountUsers returns the number of stored users
func (m *Memory) CountUsers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// SaveSession saves a session to memory
func (m *Memory) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sessionCopy := *session
	m.sessions[session.ID] = &sessionCopy
	return nil
}

// GetSession retrieves a session by ID
func (m *Memory) GetSession(ctx context.Context, id types.SessionID) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "session not in memory", goerr.V("sessionID", id))
	}

	sessionCopy := *session
	return &sessionCopy, nil
}

// DeleteSession deletes a session
func (m *Memory) DeleteSession(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// PutEvent creates or updates an event
func (m *Memory) PutEvent(ctx context.Context, event *model.Event) error {
	if event == nil {
		return goerr.New("event is nil")
	}
	if event.ID == "" {
		return goerr.New("event ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[event.ID] = event.Copy()
	return nil
}

// GetEvent retrieves an event by ID
func (m *Memory) GetEvent(ctx context.Context, id types.EventID) (*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	event, exists := m.events[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrEventNotFound, "event not in memory", goerr.V("eventID", id))
	}
	return event.Copy(), nil
}

// DeleteEvent deletes an event
func (m *Memory) DeleteEvent(ctx context.Context, id types.EventID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.events, id)
	delete(m.checkIns, id)
	delete(m.alerts, id)
	return nil
}

// ListEventsByOrganizer lists events owned by an organizer, oldest first
func (m *Memory) ListEventsByOrganizer(ctx context.Context, organizerID types.UserID) ([]*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []*model.Event
	for _, event := range m.events {
		if event.OrganizerID == organizerID {
			events = append(events, event.Copy())
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

// PutVendor creates or updates a vendor
func (m *Memory) PutVendor(ctx context.Context, vendor *model.Vendor) error {
	if vendor == nil {
		return goerr.New("vendor is nil")
	}
	if vendor.ID == "" {
		return goerr.New("vendor ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.vendors[vendor.ID] = vendor.Copy()
	return nil
}

// GetVendor retrieves a vendor by ID
func (m *Memory) GetVendor(ctx context.Context, id types.VendorID) (*model.Vendor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vendor, exists := m.vendors[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrVendorNotFound, "vendor not in memory", goerr.V("vendorID", id))
	}
	return vendor.Copy(), nil
}

// ListVendors lists all vendors, oldest first
func (m *Memory) ListVendors(ctx context.Context) ([]*model.Vendor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vendors := make([]*model.Vendor, 0, len(m.vendors))
	for _, vendor := range m.vendors {
		vendors = append(vendors, vendor.Copy())
	}
	sort.Slice(vendors, func(i, j int) bool {
		return vendors[i].CreatedAt.Before(vendors[j].CreatedAt)
	})
	return vendors, nil
}

// PutVenue creates or updates a venue
func (m *Memory) PutVenue(ctx context.Context, venue *model.Venue) error {
	if venue == nil {
		return goerr.New("venue is nil")
	}
	if venue.ID == "" {
		return goerr.New("venue ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.venues[venue.ID] = venue.Copy()
	return nil
}

// GetVenue retrieves a venue by ID
func (m *Memory) GetVenue(ctx context.Context, id types.VenueID) (*model.Venue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	venue, exists := m.venues[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrVenueNotFound, "venue not in memory", goerr.V("venueID", id))
	}
	return venue.Copy(), nil
}

// ListVenues lists all venues, oldest first
func (m *Memory) ListVenues(ctx context.Context) ([]*model.Venue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	venues := make([]*model.Venue, 0, len(m.venues))
	for _, venue := range m.venues {
		venues = append(venues, venue.Copy())
	}
	sort.Slice(venues, func(i, j int) bool {
		return venues[i].CreatedAt.Before(venues[j].CreatedAt)
	})
	return venues, nil
}

// PutBooking creates or updates a booking
func (m *Memory) PutBooking(ctx context.Context, booking *model.Booking) error {
	if booking == nil {
		return goerr.New("booking is nil")
	}
	if booking.ID == "" {
		return goerr.New("booking ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.bookings[booking.ID] = booking.Copy()
	return nil
}

// GetBooking retrieves a booking by ID
func (m *Memory) GetBooking(ctx context.Context, id types.BookingID) (*model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	booking, exists := m.bookings[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrBookingNotFound, "booking not in memory", goerr.V("bookingID", id))
	}
	return booking.Copy(), nil
}

// ListBookingsByEvent lists the bookings of an event, oldest first
func (m *Memory) ListBookingsByEvent(ctx context.Context, eventID types.EventID) ([]*model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var bookings []*model.Booking
	for _, booking := range m.bookings {
		if booking.EventID == eventID {
			bookings = append(bookings, booking.Copy())
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
	return bookings, nil
}

// PutTask creates or updates a task
func (m *Memory) PutTask(ctx context.Context, task *model.Task) error {
	if task == nil {
		return goerr.New("task is nil")
	}
	if task.ID == "" {
		return goerr.New("task ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks[task.ID] = task.Copy()
	return nil
}

// GetTask retrieves a task by ID
func (m *Memory) GetTask(ctx context.Context, id types.TaskID) (*model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, exists := m.tasks[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrTaskNotFound, "task not in memory", goerr.V("taskID", id))
	}
	return task.Copy(), nil
}

// DeleteTask deletes a task
func (m *Memory) DeleteTask(ctx context.Context, id types.TaskID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tasks, id)
	return nil
}

// ListTasksByEvent lists the tasks of an event by due date
func (m *Memory) ListTasksByEvent(ctx context.Context, eventID types.EventID) ([]*model.Task, error) {
	return m.listTasks(func(t *model.Task) bool { return t.EventID == eventID }), nil
}

// ListTasksByOrganizer lists the tasks of all events of an organizer by due date
func (m *Memory) ListTasksByOrganizer(ctx context.Context, organizerID types.UserID) ([]*model.Task, error) {
	return m.listTasks(func(t *model.Task) bool { return t.OrganizerID == organizerID }), nil
}

func (m *Memory) listTasks(match func(*model.Task) bool) []*model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var tasks []*model.Task
	for _, task := range m.tasks {
		if match(task) {
			tasks = append(tasks, task.Copy())
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
	return tasks
}

// PutPaymentIntent creates or updates a payment intent
func (m *Memory) PutPaymentIntent(ctx context.Context, intent *model.PaymentIntent) error {
	if intent == nil {
		return goerr.New("payment intent is nil")
	}
	if intent.ID == "" {
		return goerr.New("payment intent ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.payments[intent.ID] = intent.Copy()
	return nil
}

// GetPaymentIntent retrieves a payment intent by ID
func (m *Memory) GetPaymentIntent(ctx context.Context, id types.PaymentIntentID) (*model.PaymentIntent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	intent, exists := m.payments[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrPaymentNotFound, "payment intent not in memory", goerr.V("paymentIntentID", id))
	}
	return intent.Copy(), nil
}

// CreateCheckIn records a guest check-in once per guest and event
func (m *Memory) CreateCheckIn(ctx context.Context, checkIn *model.CheckIn) (*model.CheckIn, error) {
	if err := validateCheckIn(checkIn); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	byGuest := m.checkIns[checkIn.EventID]
	if byGuest == nil {
		byGuest = make(map[string]*model.CheckIn)
		m.checkIns[checkIn.EventID] = byGuest
	}
	if existing, ok := byGuest[checkIn.GuestID]; ok {
		return existing.Copy(), nil
	}
	byGuest[checkIn.GuestID] = checkIn.Copy()
	return checkIn.Copy(), nil
}

func validateCheckIn(checkIn *model.CheckIn) error {
	if checkIn == nil {
		return goerr.New("check-in is nil")
	}
	if checkIn.ID == "" || checkIn.EventID == "" || checkIn.GuestID == "" {
		return goerr.New("check-in ID, event ID and guest ID are required")
	}
	return nil
}

// ListCheckIns lists the check-ins of an event, earliest first
func (m *Memory) ListCheckIns(ctx context.Context, eventID types.EventID) ([]*model.CheckIn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	checkIns := make([]*model.CheckIn, 0, len(m.checkIns[eventID]))
	for _, c := range m.checkIns[eventID] {
		checkIns = append(checkIns, c.Copy())
	}
	sort.Slice(checkIns, func(i, j int) bool {
		return checkIns[i].CheckedInAt.Before(checkIns[j].CheckedInAt)
	})
	return checkIns, nil
}

// PutAlert creates or updates an alert
func (m *Memory) PutAlert(ctx context.Context, alert *model.Alert) error {
	if alert == nil {
		return goerr.New("alert is nil")
	}
	if alert.ID == "" || alert.EventID == "" {
		return goerr.New("alert ID and event ID are required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.alerts[alert.EventID] == nil {
		m.alerts[alert.EventID] = make(map[types.AlertID]*model.Alert)
	}
	m.alerts[alert.EventID][alert.ID] = alert.Copy()
	return nil
}

// GetAlert retrieves an alert of an event
func (m *Memory) GetAlert(ctx context.Context, eventID types.EventID, id types.AlertID) (*model.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alert, exists := m.alerts[eventID][id]
	if !exists {
		return nil, goerr.Wrap(model.ErrAlertNotFound, "alert not in memory",
			goerr.V("eventID", eventID), goerr.V("alertID", id))
	}
	return alert.Copy(), nil
}

// ListAlerts lists the alerts of an event, newest first
func (m *Memory) ListAlerts(ctx context.Context, eventID types.EventID) ([]*model.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alerts := make([]*model.Alert, 0, len(m.alerts[eventID]))
	for _, a := range m.alerts[eventID] {
		alerts = append(alerts, a.Copy())
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

// PutDeviceState stores the state of an event device, replacing the previous one
func (m *Memory) PutDeviceState(ctx context.Context, state *model.DeviceState) error {
	if state == nil {
		return goerr.New("device state is nil")
	}
	if state.EventID == "" || state.DeviceType == "" {
		return goerr.New("event ID and device type are required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.devices[deviceKey{state.EventID, state.DeviceType}] = state.Copy()
	return nil
}

// ListDeviceStates lists the device states of an event
func (m *Memory) ListDeviceStates(ctx context.Context, eventID types.EventID) ([]*model.DeviceState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var states []*model.DeviceState
	for key, state := range m.devices {
		if key.eventID == eventID {
			states = append(states, state.Copy())
		}
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].DeviceType < states[j].DeviceType
	})
	return states, nil
}

// PutVendorCheckpoint stores the live status of a vendor at an event
func (m *Memory) PutVendorCheckpoint(ctx context.Context, checkpoint *model.VendorCheckpoint) error {
	if checkpoint == nil {
		return goerr.New("vendor checkpoint is nil")
	}
	if checkpoint.EventID == "" || checkpoint.VendorID == "" {
		return goerr.New("event ID and vendor ID are required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkpoints[checkpointKey{checkpoint.EventID, checkpoint.VendorID}] = checkpoint.Copy()
	return nil
}

// ListVendorCheckpoints lists the vendor checkpoints of an event
func (m *Memory) ListVendorCheckpoints(ctx context.Context, eventID types.EventID) ([]*model.VendorCheckpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var checkpoints []*model.VendorCheckpoint
	for key, c := range m.checkpoints {
		if key.eventID == eventID {
			checkpoints = append(checkpoints, c.Copy())
		}
	}
	sort.Slice(checkpoints, func(i, j int) bool {
		return checkpoints[i].VendorID < checkpoints[j].VendorID
	})
	return checkpoints, nil
}

// Close closes the repository (no-op for memory)
func (m *Memory) Close() error {
	return nil
}
