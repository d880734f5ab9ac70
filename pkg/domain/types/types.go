package types

import (
	"strings"

	"github.com/google/uuid"
)

// newShortID returns prefix followed by n hex characters of a random UUID
func newShortID(prefix string, n int) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	if n > len(hex) {
		n = len(hex)
	}
	return prefix + hex[:n]
}

// UserID represents a user identifier
type UserID string

// String returns the string representation
func (id UserID) String() string {
	return string(id)
}

// NewUserID creates a new UserID
func NewUserID() UserID {
	return UserID(newShortID("usr_", 12))
}

// SessionID represents a session identifier
type SessionID string

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// NewSessionID creates a new SessionID using UUID v7
func NewSessionID() (SessionID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return SessionID(id.String()), nil
}

// EventID represents an event identifier
type EventID string

// String returns the string representation
func (id EventID) String() string {
	return string(id)
}

// NewEventID creates a new EventID
func NewEventID() EventID {
	return EventID(newShortID("evt_", 12))
}

// VendorID represents a marketplace vendor identifier
type VendorID string

// String returns the string representation
func (id VendorID) String() string {
	return string(id)
}

// NewVendorID creates a new VendorID
func NewVendorID() VendorID {
	return VendorID(newShortID("vnd_", 12))
}

// VenueID represents a venue identifier
type VenueID string

// String returns the string representation
func (id VenueID) String() string {
	return string(id)
}

// NewVenueID creates a new VenueID
func NewVenueID() VenueID {
	return VenueID(newShortID("ven_", 12))
}

// BookingID represents a booking identifier
type BookingID string

// String returns the string representation
func (id BookingID) String() string {
	return string(id)
}

// NewBookingID creates a new BookingID
func NewBookingID() BookingID {
	return BookingID(newShortID("bkg_", 12))
}

// TaskID represents a task identifier
type TaskID string

// String returns the string representation
func (id TaskID) String() string {
	return string(id)
}

// NewTaskID creates a new TaskID
func NewTaskID() TaskID {
	return TaskID(newShortID("tsk_", 12))
}

// AlertID represents a live event alert identifier
type AlertID string

// String returns the string representation
func (id AlertID) String() string {
	return string(id)
}

// NewAlertID creates a new AlertID
func NewAlertID() AlertID {
	return AlertID(newShortID("alert_", 12))
}

// CheckInID represents a guest check-in identifier
type CheckInID string

// String returns the string representation
func (id CheckInID) String() string {
	return string(id)
}

// NewCheckInID creates a new CheckInID
func NewCheckInID() CheckInID {
	return CheckInID(newShortID("chk_", 12))
}

// PaymentIntentID represents a payment intent identifier issued by the gateway
type PaymentIntentID string

// String returns the string representation
func (id PaymentIntentID) String() string {
	return string(id)
}

// NewPaymentIntentID creates a new PaymentIntentID
func NewPaymentIntentID() PaymentIntentID {
	return PaymentIntentID(newShortID("pi_", 24))
}
