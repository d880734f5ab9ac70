package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	usersCollection          = "users"
	sessionsCollection       = "sessions"
	eventsCollection         = "events"
	vendorsCollection        = "vendors"
	venuesCollection         = "venues"
	bookingsCollection       = "bookings"
	tasksCollection          = "tasks"
	paymentIntentsCollection = "payment_intents"

	// Subcollections of an event document
	checkInsCollection    = "checkins"
	alertsCollection      = "alerts"
	devicesCollection     = "devices"
	checkpointsCollection = "vendor_checkpoints"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on invalid project or missing permissions
	_, err = client.Collection(usersCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

func (f *Firestore) eventDoc(eventID types.EventID) *firestore.DocumentRef {
	return f.client.Collection(eventsCollection).Doc(eventID.String())
}

func getDoc[T any](ctx context.Context, ref *firestore.DocumentRef, notFound error) (*T, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(notFound, "document not in firestore", goerr.V("path", ref.Path))
		}
		return nil, goerr.Wrap(err, "failed to get document from firestore", goerr.V("path", ref.Path))
	}

	var v T
	if err := doc.DataTo(&v); err != nil {
		return nil, goerr.Wrap(err, "failed to decode document", goerr.V("path", ref.Path))
	}
	return &v, nil
}

func queryDocs[T any](ctx context.Context, query firestore.Query) ([]*T, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.V("id", doc.Ref.ID))
		}
		out = append(out, &v)
	}
	return out, nil
}

func setDoc(ctx context.Context, ref *firestore.DocumentRef, v any) error {
	if _, err := ref.Set(ctx, v); err != nil {
		return goerr.Wrap(err, "failed to save document to firestore", goerr.V("path", ref.Path))
	}
	return nil
}

// SaveUser saves a user to Firestore
func (f *Firestore) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return goerr.New("user is nil")
	}
	if user.ID == "" {
		return goerr.New("user ID is empty")
	}
	return setDoc(ctx, f.client.Collection(usersCollection).Doc(user.ID.String()), user)
}

// GetUser retrieves a user by ID
func (f *Firestore) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	if id == "" {
		return nil, goerr.New("user ID is empty")
	}
	return getDoc[model.User](ctx, f.client.Collection(usersCollection).Doc(id.String()), model.ErrUserNotFound)
}

// GetUserByEmail retrieves a user by email address
func (f *Firestore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, goerr.New("email is empty")
	}

	users, err := queryDocs[model.User](ctx, f.client.Collection(usersCollection).
		Where("Email", "==", email).
		Limit(1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by email")
	}
	if len(users) == 0 {
		return nil, goerr.Wrap(model.ErrUserNotFound, "user not in firestore", goerr.V("email", email))
	}
	return users[0], nil
}

// CountUsers returns the number of stored users
func (f *Firestore) CountUsers(ctx context.Context) (int, error) {
	result, err := f.client.Collection(usersCollection).NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count users")
	}

	v, ok := result["all"]
	if !ok {
		return 0, goerr.New("count aggregation result missing")
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case interface{ GetIntegerValue() int64 }:
		return int(n.GetIntegerValue()), nil
	default:
		return 0, goerr.New("unexpected count aggregation result", goerr.V("value", v))
	}
}

// SaveSession saves a session to Firestore
func (f *Firestore) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}
	return setDoc(ctx, f.client.Collection(sessionsCollection).Doc(session.ID.String()), session)
}

// GetSession retrieves a session by ID
func (f *Firestore) GetSession(ctx context.Context, id types.SessionID) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}
	return getDoc[model.Session](ctx, f.client.Collection(sessionsCollection).Doc(id.String()), model.ErrSessionNotFound)
}

// DeleteSession deletes a session from Firestore
func (f *Firestore) DeleteSession(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}
	if _, err := f.client.Collection(sessionsCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session from firestore")
	}
	return nil
}

// PutEvent creates or updates an event
func (f *Firestore) PutEvent(ctx context.Context, event *model.Event) error {
	if event == nil {
		return goerr.New("event is nil")
	}
	if event.ID == "" {
		return goerr.New("event ID is empty")
	}
	return setDoc(ctx, f.eventDoc(event.ID), event)
}

// GetEvent retrieves an event by ID
func (f *Firestore) GetEvent(ctx context.Context, id types.EventID) (*model.Event, error) {
	if id == "" {
		return nil, goerr.Wrap(model.ErrEventNotFound, "event ID is empty")
	}
	return getDoc[model.Event](ctx, f.eventDoc(id), model.ErrEventNotFound)
}

// DeleteEvent deletes an event and the documents of its live subcollections
func (f *Firestore) DeleteEvent(ctx context.Context, id types.EventID) error {
	ref := f.eventDoc(id)
	for _, sub := range []string{checkInsCollection, alertsCollection, devicesCollection, checkpointsCollection} {
		refs, err := ref.Collection(sub).DocumentRefs(ctx).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to list event subcollection", goerr.V("collection", sub))
		}
		for _, doc := range refs {
			if _, err := doc.Delete(ctx); err != nil {
				return goerr.Wrap(err, "failed to delete event subdocument", goerr.V("path", doc.Path))
			}
		}
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete event from firestore", goerr.V("eventID", id))
	}
	return nil
}

// ListEventsByOrganizer lists events owned by an organizer, oldest first
func (f *Firestore) ListEventsByOrganizer(ctx context.Context, organizerID types.UserID) ([]*model.Event, error) {
	events, err := queryDocs[model.Event](ctx, f.client.Collection(eventsCollection).
		Where("OrganizerID", "==", organizerID.String()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list events", goerr.V("organizerID", organizerID))
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

// PutVendor creates or updates a vendor
func (f *Firestore) PutVendor(ctx context.Context, vendor *model.Vendor) error {
	if vendor == nil {
		return goerr.New("vendor is nil")
	}
	if vendor.ID == "" {
		return goerr.New("vendor ID is empty")
	}
	return setDoc(ctx, f.client.Collection(vendorsCollection).Doc(vendor.ID.String()), vendor)
}

// GetVendor retrieves a vendor by ID
func (f *Firestore) GetVendor(ctx context.Context, id types.VendorID) (*model.Vendor, error) {
	if id == "" {
		return nil, goerr.Wrap(model.ErrVendorNotFound, "vendor ID is empty")
	}
	return getDoc[model.Vendor](ctx, f.client.Collection(vendorsCollection).Doc(id.String()), model.ErrVendorNotFound)
}

// ListVendors lists all vendors, oldest first
func (f *Firestore) ListVendors(ctx context.Context) ([]*model.Vendor, error) {
	vendors, err := queryDocs[model.Vendor](ctx, f.client.Collection(vendorsCollection).Query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list vendors")
	}
	sort.Slice(vendors, func(i, j int) bool {
		return vendors[i].CreatedAt.Before(vendors[j].CreatedAt)
	})
	return vendors, nil
}

// PutVenue creates or updates a venue
func (f *Firestore) PutVenue(ctx context.Context, venue *model.Venue) error {
	if venue == nil {
		return goerr.New("venue is nil")
	}
	if venue.ID == "" {
		return goerr.New("venue ID is empty")
	}
	return setDoc(ctx, f.client.Collection(venuesCollection).Doc(venue.ID.String()), venue)
}

// GetVenue retrieves a venue by ID
func (f *Firestore) GetVenue(ctx context.Context, id types.VenueID) (*model.Venue, error) {
	if id == "" {
		return nil, goerr.Wrap(model.ErrVenueNotFound, "venue ID is empty")
	}
	return getDoc[model.Venue](ctx, f.client.Collection(venuesCollection).Doc(id.String()), model.ErrVenueNotFound)
}

// ListVenues lists all venues, oldest first
func (f *Firestore) ListVenues(ctx context.Context) ([]*model.Venue, error) {
	venues, err := queryDocs[model.Venue](ctx, f.client.Collection(venuesCollection).Query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list venues")
	}
	sort.Slice(venues, func(i, j int) bool {
		return venues[i].CreatedAt.Before(venues[j].CreatedAt)
	})
	return venues, nil
}

// PutBooking creates or updates a booking
func (f *Firestore) PutBooking(ctx context.Context, booking *model.Booking) error {
	if booking == nil {
		return goerr.New("booking is nil")
	}
	if booking.ID == "" {
		return goerr.New("booking ID is empty")
	}
	return setDoc(ctx, f.client.Collection(bookingsCollection).Doc(booking.ID.String()), booking)
}

// GetBooking retrieves a booking by ID
func (f *Firestore) GetBooking(ctx context.Context, id types.BookingID) (*model.Booking, error) {
	if id == "" {
		return nil, goerr.Wrap(model.ErrBookingNotFound, "booking ID is empty")
	}
	return getDoc[model.Booking](ctx, f.client.Collection(bookingsCollection).Doc(id.String()), model.ErrBookingNotFound)
}

// ListBookingsByEvent lists the bookings of an event, oldest first
func (f *Firestore) ListBookingsByEvent(ctx context.Context, eventID types.EventID) ([]*model.Booking, error) {
	bookings, err := queryDocs[model.Booking](ctx, f.client.Collection(bookingsCollection).
		Where("EventID", "==", eventID.String()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list bookings", goerr.V("eventID", eventID))
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
	return bookings, nil
}

// PutTask creates or updates a task
func (f *Firestore) PutTask(ctx context.Context, task *model.Task) error {
	if task == nil {
		return goerr.New("task is nil")
	}
	if task.ID == "" {
		return goerr.New("task ID is empty")
	}
	return setDoc(ctx, f.client.Collection(tasksCollection).Doc(task.ID.String()), task)
}

// GetTask retrieves a task by ID
func (f *Firestore) GetTask(ctx context.Context, id types.TaskID) (*model.Task, error) {
	if id == "" {
		return nil, goerr.Wrap(model.ErrTaskNotFound, "task ID is empty")
	}
	return getDoc[model.Task](ctx, f.client.Collection(tasksCollection).Doc(id.String()), model.ErrTaskNotFound)
}

// DeleteTask deletes a task
func (f *Firestore) DeleteTask(ctx context.Context, id types.TaskID) error {
	if id == "" {
		return goerr.New("task ID is empty")
	}
	if _, err := f.client.Collection(tasksCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete task from firestore", goerr.V("taskID", id))
	}
	return nil
}

// ListTasksByEvent lists the tasks of an event by due date
func (f *Firestore) ListTasksByEvent(ctx context.Context, eventID types.EventID) ([]*model.Task, error) {
	return f.listTasks(ctx, "EventID", eventID.String())
}

// ListTasksByOrganizer lists the tasks of all events of an organizer by due date
func (f *Firestore) ListTasksByOrganizer(ctx context.Context, organizerID types.UserID) ([]*model.Task, error) {
	return f.listTasks(ctx, "OrganizerID", organizerID.String())
}

func (f *Firestore) listTasks(ctx context.Context, field, value string) ([]*model.Task, error) {
	tasks, err := queryDocs[model.Task](ctx, f.client.Collection(tasksCollection).Where(field, "==", value))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V(field, value))
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
	return tasks, nil
}

// PutPaymentIntent creates or updates a payment intent
func (f *Firestore) PutPaymentIntent(ctx context.Context, intent *model.PaymentIntent) error {
	if intent == nil {
		return goerr.New("payment intent is nil")
	}
	if intent.ID == "" {
		return goerr.New("payment intent ID is empty")
	}
	return setDoc(ctx, f.client.Collection(paymentIntentsCollection).Doc(intent.ID.String()), intent)
}

// GetPaymentIntent retrieves a payment intent by ID
func (f *Firestore) GetPaymentIntent(ctx context.Context, id types.PaymentIntentID) (*model.PaymentIntent, error) {
	if id == "" {
		return nil, goerr.Wrap(model.ErrPaymentNotFound, "payment intent ID is empty")
	}
	return getDoc[model.PaymentIntent](ctx, f.client.Collection(paymentIntentsCollection).Doc(id.String()), model.ErrPaymentNotFound)
}

// CreateCheckIn records a guest check-in once per guest and event. The
// document ID is derived from the guest ID so a second Create conflicts.
func (f *Firestore) CreateCheckIn(ctx context.Context, checkIn *model.CheckIn) (*model.CheckIn, error) {
	if err := validateCheckIn(checkIn); err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(checkIn.GuestID))
	ref := f.eventDoc(checkIn.EventID).Collection(checkInsCollection).Doc(hex.EncodeToString(sum[:]))
	if _, err := ref.Create(ctx, checkIn); err != nil {
		if status.Code(err) != codes.AlreadyExists {
			return nil, goerr.Wrap(err, "failed to save check-in to firestore", goerr.V("path", ref.Path))
		}
		return getDoc[model.CheckIn](ctx, ref, goerr.New("check-in not stored"))
	}
	return checkIn, nil
}

// ListCheckIns lists the check-ins of an event, earliest first
func (f *Firestore) ListCheckIns(ctx context.Context, eventID types.EventID) ([]*model.CheckIn, error) {
	checkIns, err := queryDocs[model.CheckIn](ctx, f.eventDoc(eventID).Collection(checkInsCollection).Query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list check-ins", goerr.V("eventID", eventID))
	}
	sort.Slice(checkIns, func(i, j int) bool {
		return checkIns[i].CheckedInAt.Before(checkIns[j].CheckedInAt)
	})
	return checkIns, nil
}

// PutAlert creates or updates an alert
func (f *Firestore) PutAlert(ctx context.Context, alert *model.Alert) error {
	if alert == nil {
		return goerr.New("alert is nil")
	}
	if alert.ID == "" || alert.EventID == "" {
		return goerr.New("alert ID and event ID are required")
	}
	return setDoc(ctx, f.eventDoc(alert.EventID).Collection(alertsCollection).Doc(alert.ID.String()), alert)
}

// GetAlert retrieves an alert of an event
func (f *Firestore) GetAlert(ctx context.Context, eventID types.EventID, id types.AlertID) (*model.Alert, error) {
	if eventID == "" || id == "" {
		return nil, goerr.Wrap(model.ErrAlertNotFound, "event ID or alert ID is empty")
	}
	return getDoc[model.Alert](ctx, f.eventDoc(eventID).Collection(alertsCollection).Doc(id.String()), model.ErrAlertNotFound)
}

// ListAlerts lists the alerts of an event, newest first
func (f *Firestore) ListAlerts(ctx context.Context, eventID types.EventID) ([]*model.Alert, error) {
	alerts, err := queryDocs[model.Alert](ctx, f.eventDoc(eventID).Collection(alertsCollection).Query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list alerts", goerr.V("eventID", eventID))
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

// PutDeviceState stores the state of an event device, replacing the previous one
func (f *Firestore) PutDeviceState(ctx context.Context, state *model.DeviceState) error {
	if state == nil {
		return goerr.New("device state is nil")
	}
	if state.EventID == "" || state.DeviceType == "" {
		return goerr.New("event ID and device type are required")
	}
	return setDoc(ctx, f.eventDoc(state.EventID).Collection(devicesCollection).Doc(string(state.DeviceType)), state)
}

// ListDeviceStates lists the device states of an event
func (f *Firestore) ListDeviceStates(ctx context.Context, eventID types.EventID) ([]*model.DeviceState, error) {
	states, err := queryDocs[model.DeviceState](ctx, f.eventDoc(eventID).Collection(devicesCollection).Query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list device states", goerr.V("eventID", eventID))
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].DeviceType < states[j].DeviceType
	})
	return states, nil
}

// PutVendorCheckpoint stores the live status of a vendor at an event
func (f *Firestore) PutVendorCheckpoint(ctx context.Context, checkpoint *model.VendorCheckpoint) error {
	if checkpoint == nil {
		return goerr.New("vendor checkpoint is nil")
	}
	if checkpoint.EventID == "" || checkpoint.VendorID == "" {
		return goerr.New("event ID and vendor ID are required")
	}
	return setDoc(ctx, f.eventDoc(checkpoint.EventID).Collection(checkpointsCollection).Doc(checkpoint.VendorID.String()), checkpoint)
}

// ListVendorCheckpoints lists the vendor checkpoints of an event
func (f *Firestore) ListVendorCheckpoints(ctx context.Context, eventID types.EventID) ([]*model.VendorCheckpoint, error) {
	checkpoints, err := queryDocs[model.VendorCheckpoint](ctx, f.eventDoc(eventID).Collection(checkpointsCollection).Query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list vendor checkpoints", goerr.V("eventID", eventID))
	}
	sort.Slice(checkpoints, func(i, j int) bool {
		return checkpoints[i].VendorID < checkpoints[j].VendorID
	})
	return checkpoints, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

var _ interfaces.Repository = (*Firestore)(nil) // Compile-time interface check
