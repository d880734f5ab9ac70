package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"
)

// SQLite implements Repository interface with an embedded SQLite database.
// Each table keeps its lookup keys as columns and the entity itself as JSON.
type SQLite struct {
	db *sql.DB
}

var _ interfaces.Repository = (*SQLite)(nil)

// NewSQLite opens or creates a SQLite database file and applies the schema
func NewSQLite(ctx context.Context, path string) (interfaces.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("path", path))
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to ping sqlite database", goerr.V("path", path))
	}

	repo := &SQLite{db: db}
	if err := repo.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	ctxlog.From(ctx).Info("SQLite repository initialized", "path", path)
	return repo, nil
}

// NewSQLiteMemory creates an in-memory SQLite repository
func NewSQLiteMemory(ctx context.Context) (interfaces.Repository, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open in-memory sqlite database")
	}
	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	repo := &SQLite{db: db}
	if err := repo.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return goerr.Wrap(err, "failed to apply sqlite schema")
	}
	return nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    organizer_id TEXT NOT NULL,
    data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_organizer ON events(organizer_id);

CREATE TABLE IF NOT EXISTS vendors (
    id TEXT PRIMARY KEY,
    data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS venues (
    id TEXT PRIMARY KEY,
    data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookings_event ON bookings(event_id);

CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    organizer_id TEXT NOT NULL,
    data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_event ON tasks(event_id);
CREATE INDEX IF NOT EXISTS idx_tasks_organizer ON tasks(organizer_id);

CREATE TABLE IF NOT EXISTS payment_intents (
    id TEXT PRIMARY KEY,
    data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS checkins (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    guest_id TEXT NOT NULL,
    data TEXT NOT NULL,
    UNIQUE (event_id, guest_id)
);

CREATE TABLE IF NOT EXISTS alerts (
    event_id TEXT NOT NULL,
    id TEXT NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (event_id, id)
);

CREATE TABLE IF NOT EXISTS devices (
    event_id TEXT NOT NULL,
    device_type TEXT NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (event_id, device_type)
);

CREATE TABLE IF NOT EXISTS vendor_checkpoints (
    event_id TEXT NOT NULL,
    vendor_id TEXT NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (event_id, vendor_id)
);
`

func (s *SQLite) exec(ctx context.Context, query string, v any, keys ...any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal row")
	}
	args := append(keys, string(raw))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return goerr.Wrap(err, "failed to write row", goerr.V("query", query))
	}
	return nil
}

func getRow[T any](ctx context.Context, db *sql.DB, notFound error, query string, args ...any) (*T, error) {
	var raw string
	if err := db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(notFound, "row not in sqlite", goerr.V("args", args))
		}
		return nil, goerr.Wrap(err, "failed to query row", goerr.V("query", query))
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal row", goerr.V("query", query))
	}
	return &v, nil
}

func listRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query rows", goerr.V("query", query))
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, goerr.Wrap(err, "failed to scan row")
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal row", goerr.V("query", query))
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate rows", goerr.V("query", query))
	}
	return out, nil
}

// SaveUser saves a user to SQLite
func (s *SQLite) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return goerr.New("user is nil")
	}
	if user.ID == "" {
		return goerr.New("user ID is empty")
	}
	return s.exec(ctx, `INSERT INTO users (id, email, data) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email, data = excluded.data`,
		user, user.ID.String(), user.Email)
}

// GetUser retrieves a user by ID
func (s *SQLite) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	if id == "" {
		return nil, goerr.New("user ID is empty")
	}
	return getRow[model.User](ctx, s.db, model.ErrUserNotFound,
		`SELECT data FROM users WHERE id = ?`, id.String())
}

// GetUserByEmail retrieves a user by email address
func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, goerr.New("email is empty")
	}
	return getRow[model.User](ctx, s.db, model.ErrUserNotFound,
		`SELECT data FROM users WHERE email = ?`, email)
}

// CountUsers returns the number of stored users
func (s *SQLite) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, goerr.Wrap(err, "failed to count users")
	}
	return n, nil
}

// SaveSession saves a session to SQLite
func (s *SQLite) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}
	return s.exec(ctx, `INSERT OR REPLACE INTO sessions (id, user_id, data) VALUES (?, ?, ?)`,
		session, session.ID.String(), session.UserID.String())
}

// GetSession retrieves a session by ID
func (s *SQLite) GetSession(ctx context.Context, id types.SessionID) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}
	return getRow[model.Session](ctx, s.db, model.ErrSessionNotFound,
		`SELECT data FROM sessions WHERE id = ?`, id.String())
}

// DeleteSession deletes a session
func (s *SQLite) DeleteSession(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String()); err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V("sessionID", id))
	}
	return nil
}

// PutEvent creates or updates an event
func (s *SQLite) PutEvent(ctx context.Context, event *model.Event) error {
	if event == nil {
		return goerr.New("event is nil")
	}
	if event.ID == "" {
		return goerr.New("event ID is empty")
	}
	return s.exec(ctx, `INSERT OR REPLACE INTO events (id, organizer_id, data) VALUES (?, ?, ?)`,
		event, event.ID.String(), event.OrganizerID.String())
}

// GetEvent retrieves an event by ID
func (s *SQLite) GetEvent(ctx context.Context, id types.EventID) (*model.Event, error) {
	return getRow[model.Event](ctx, s.db, model.ErrEventNotFound,
		`SELECT data FROM events WHERE id = ?`, id.String())
}

// DeleteEvent deletes an event together with its live event records
func (s *SQLite) DeleteEvent(ctx context.Context, id types.EventID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for _, query := range []string{
		`DELETE FROM events WHERE id = ?`,
		`DELETE FROM checkins WHERE event_id = ?`,
		`DELETE FROM alerts WHERE event_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, query, id.String()); err != nil {
			return goerr.Wrap(err, "failed to delete event", goerr.V("eventID", id))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit event deletion", goerr.V("eventID", id))
	}
	return nil
}

// ListEventsByOrganizer lists events owned by an organizer, oldest first
func (s *SQLite) ListEventsByOrganizer(ctx context.Context, organizerID types.UserID) ([]*model.Event, error) {
	events, err := listRows[model.Event](ctx, s.db,
		`SELECT data FROM events WHERE organizer_id = ?`, organizerID.String())
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

// PutVendor creates or updates a vendor
func (s *SQLite) PutVendor(ctx context.Context, vendor *model.Vendor) error {
	if vendor == nil {
		return goerr.New("vendor is nil")
	}
	if vendor.ID == "" {
		return goerr.New("vendor ID is empty")
	}
	return s.exec(ctx, `INSERT OR REPLACE INTO vendors (id, data) VALUES (?, ?)`,
		vendor, vendor.ID.String())
}

// GetVendor retrieves a vendor by ID
func (s *SQLite) GetVendor(ctx context.Context, id types.VendorID) (*model.Vendor, error) {
	return getRow[model.Vendor](ctx, s.db, model.ErrVendorNotFound,
		`SELECT data FROM vendors WHERE id = ?`, id.String())
}

// ListVendors lists all vendors, oldest first
func (s *SQLite) ListVendors(ctx context.Context) ([]*model.Vendor, error) {
	vendors, err := listRows[model.Vendor](ctx, s.db, `SELECT data FROM vendors`)
	if err != nil {
		return nil, err
	}
	sort.Slice(vendors, func(i, j int) bool {
		return vendors[i].CreatedAt.Before(vendors[j].CreatedAt)
	})
	return vendors, nil
}

// PutVenue creates or updates a venue
func (s *SQLite) PutVenue(ctx context.Context, venue *model.Venue) error {
	if venue == nil {
		return goerr.New("venue is nil")
	}
	if venue.ID == "" {
		return goerr.New("venue ID is empty")
	}
	return s.exec(ctx, `INSERT OR REPLACE INTO venues (id, data) VALUES (?, ?)`,
		venue, venue.ID.String())
}

// GetVenue retrieves a venue by ID
func (s *SQLite) GetVenue(ctx context.Context, id types.VenueID) (*model.Venue, error) {
	return getRow[model.Venue](ctx, s.db, model.ErrVenueNotFound,
		`SELECT data FROM venues WHERE id = ?`, id.String())
}

// ListVenues lists all venues, oldest first
func (s *SQLite) ListVenues(ctx context.Context) ([]*model.Venue, error) {
	venues, err := listRows[model.Venue](ctx, s.db, `SELECT data FROM venues`)
	if err != nil {
		return nil, err
	}
	sort.Slice(venues, func(i, j int) bool {
		return venues[i].CreatedAt.Before(venues[j].CreatedAt)
	})
	return venues, nil
}

// PutBooking creates or updates a booking
func (s *SQLite) PutBooking(ctx context.Context, booking *model.Booking) error {
	if booking == nil {
		return goerr.New("booking is nil")
	}
	if booking.ID == "" {
		return goerr.New("booking ID is empty")
	}
	return s.exec(ctx, `INSERT OR REPLACE INTO bookings (id, event_id, data) VALUES (?, ?, ?)`,
		booking, booking.ID.String(), booking.EventID.String())
}

// GetBooking retrieves a booking by ID
func (s *SQLite) GetBooking(ctx context.Context, id types.BookingID) (*model.Booking, error) {
	return getRow[model.Booking](ctx, s.db, model.ErrBookingNotFound,
		`SELECT data FROM bookings WHERE id = ?`, id.String())
}

// ListBookingsByEvent lists the bookings of an event, oldest first
func (s *SQLite) ListBookingsByEvent(ctx context.Context, eventID types.EventID) ([]*model.Booking, error) {
	bookings, err := listRows[model.Booking](ctx, s.db,
		`SELECT data FROM bookings WHERE event_id = ?`, eventID.String())
	if err != nil {
		return nil, err
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
	return bookings, nil
}

// PutTask creates or updates a task
func (s *SQLite) PutTask(ctx context.Context, task *model.Task) error {
	if task == nil {
		return goerr.New("task is nil")
	}
	if task.ID == "" {
		return goerr.New("task ID is empty")
	}
	return s.exec(ctx, `INSERT OR REPLACE INTO tasks (id, event_id, organizer_id, data) VALUES (?, ?, ?, ?)`,
		task, task.ID.String(), task.EventID.String(), task.OrganizerID.String())
}

// GetTask retrieves a task by ID
func (s *SQLite) GetTask(ctx context.Context, id types.TaskID) (*model.Task, error) {
	return getRow[model.Task](ctx, s.db, model.ErrTaskNotFound,
		`SELECT data FROM tasks WHERE id = ?`, id.String())
}

// DeleteTask deletes a task
func (s *SQLite) DeleteTask(ctx context.Context, id types.TaskID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String()); err != nil {
		return goerr.Wrap(err, "failed to delete task", goerr.V("taskID", id))
	}
	return nil
}

// ListTasksByEvent lists the tasks of an event by due date
func (s *SQLite) ListTasksByEvent(ctx context.Context, eventID types.EventID) ([]*model.Task, error) {
	return s.listTasks(ctx, `SELECT data FROM tasks WHERE event_id = ?`, eventID.String())
}

// ListTasksByOrganizer lists the tasks of all events of an organizer by due date
func (s *SQLite) ListTasksByOrganizer(ctx context.Context, organizerID types.UserID) ([]*model.Task, error) {
	return s.listTasks(ctx, `SELECT data FROM tasks WHERE organizer_id = ?`, organizerID.String())
}

func (s *SQLite) listTasks(ctx context.Context, query string, args ...any) ([]*model.Task, error) {
	tasks, err := listRows[model.Task](ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
	return tasks, nil
}

// PutPaymentIntent creates or updates a payment intent
func (s *SQLite) PutPaymentIntent(ctx context.Context, intent *model.PaymentIntent) error {
	if intent == nil {
		return goerr.New("payment intent is nil")
	}
	if intent.ID == "" {
		return goerr.New("payment intent ID is empty")
	}
	return s.exec(ctx, `INSERT OR REPLACE INTO payment_intents (id, data) VALUES (?, ?)`,
		intent, intent.ID.String())
}

// GetPaymentIntent retrieves a payment intent by ID
func (s *SQLite) GetPaymentIntent(ctx context.Context, id types.PaymentIntentID) (*model.PaymentIntent, error) {
	return getRow[model.PaymentIntent](ctx, s.db, model.ErrPaymentNotFound,
		`SELECT data FROM payment_intents WHERE id = ?`, id.String())
}

// CreateCheckIn records a guest check-in once per guest and event
func (s *SQLite) CreateCheckIn(ctx context.Context, checkIn *model.CheckIn) (*model.CheckIn, error) {
	if err := validateCheckIn(checkIn); err != nil {
		return nil, err
	}
	if err := s.exec(ctx, `INSERT INTO checkins (id, event_id, guest_id, data) VALUES (?, ?, ?, ?)
		ON CONFLICT (event_id, guest_id) DO NOTHING`,
		checkIn, checkIn.ID.String(), checkIn.EventID.String(), checkIn.GuestID); err != nil {
		return nil, err
	}
	return getRow[model.CheckIn](ctx, s.db, goerr.New("check-in not stored"),
		`SELECT data FROM checkins WHERE event_id = ? AND guest_id = ?`,
		checkIn.EventID.String(), checkIn.GuestID)
}

// ListCheckIns lists the check-ins of an event, earliest first
func (s *SQLite) ListCheckIns(ctx context.Context, eventID types.EventID) ([]*model.CheckIn, error) {
	checkIns, err := listRows[model.CheckIn](ctx, s.db,
		`SELECT data FROM checkins WHERE event_id = ?`, eventID.String())
	if err != nil {
		return nil, err
	}
	sort.Slice(checkIns, func(i, j int) bool {
		return checkIns[i].CheckedInAt.Before(checkIns[j].CheckedInAt)
	})
	return checkIns, nil
}

// PutAlert creates or updates an alert
func (s *SQLite) PutAlert(ctx context.Context, alert *model.Alert) error {
	if alert == nil {
		return goerr.New("alert is nil")
	}
	if alert.ID == "" || alert.EventID == "" {
		return goerr.New("alert ID and event ID are required")
	}
	return s.exec(ctx, `INSERT OR REPLACE INTO alerts (event_id, id, data) VALUES (?, ?, ?)`,
		alert, alert.EventID.String(), alert.ID.String())
}

// GetAlert retrieves an alert of an event
func (s *SQLite) GetAlert(ctx context.Context, eventID types.EventID, id types.AlertID) (*model.Alert, error) {
	return getRow[model.Alert](ctx, s.db, model.ErrAlertNotFound,
		`SELECT data FROM alerts WHERE event_id = ? AND id = ?`, eventID.String(), id.String())
}

// ListAlerts lists the alerts of an event, newest first
func (s *SQLite) ListAlerts(ctx context.Context, eventID types.EventID) ([]*model.Alert, error) {
	alerts, err := listRows[model.Alert](ctx, s.db,
		`SELECT data FROM alerts WHERE event_id = ?`, eventID.String())
	if err != nil {
		return nil, err
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

// PutDeviceState stores the state of an event device, replacing the previous one
func (s *SQLite) PutDeviceState(ctx context.Context, state *model.DeviceState) error {
	if state == nil {
		return goerr.New("device state is nil")
	}
	if state.EventID == "" || state.DeviceType == "" {
		return goerr.New("event ID and device type are required")
	}
	return s.exec(ctx, `INSERT OR REPLACE INTO devices (event_id, device_type, data) VALUES (?, ?, ?)`,
		state, state.EventID.String(), string(state.DeviceType))
}

// ListDeviceStates lists the device states of an event
func (s *SQLite) ListDeviceStates(ctx context.Context, eventID types.EventID) ([]*model.DeviceState, error) {
	return listRows[model.DeviceState](ctx, s.db,
		`SELECT data FROM devices WHERE event_id = ? ORDER BY device_type`, eventID.String())
}

// PutVendorCheckpoint stores the live status of a vendor at an event
func (s *SQLite) PutVendorCheckpoint(ctx context.Context, checkpoint *model.VendorCheckpoint) error {
	if checkpoint == nil {
		return goerr.New("vendor checkpoint is nil")
	}
	if checkpoint.EventID == "" || checkpoint.VendorID == "" {
		return goerr.New("event ID and vendor ID are required")
	}
	return s.exec(ctx, `INSERT OR REPLACE INTO vendor_checkpoints (event_id, vendor_id, data) VALUES (?, ?, ?)`,
		checkpoint, checkpoint.EventID.String(), checkpoint.VendorID.String())
}

// ListVendorCheckpoints lists the vendor checkpoints of an event
func (s *SQLite) ListVendorCheckpoints(ctx context.Context, eventID types.EventID) ([]*model.VendorCheckpoint, error) {
	return listRows[model.VendorCheckpoint](ctx, s.db,
		`SELECT data FROM vendor_checkpoints WHERE event_id = ? ORDER BY vendor_id`, eventID.String())
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
