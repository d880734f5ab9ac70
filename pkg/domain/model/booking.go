package model

import (
	"maps"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Booking is an organizer's request or contract with a vendor or venue
type Booking struct {
	ID             types.BookingID
	EventID        types.EventID
	VendorID       types.VendorID // Empty for venue bookings
	VenueID        types.VenueID  // Empty for vendor bookings
	ServiceName    string
	Specifications map[string]any
	Status         types.BookingStatus
	ServiceDate    time.Time
	StartTime      *time.Time
	EndTime        *time.Time
	QuotedPrice    *float64
	FinalPrice     *float64
	Currency       string
	Message        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Copy returns a deep copy of the booking
func (b *Booking) Copy() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	c.Specifications = maps.Clone(b.Specifications)
	if b.StartTime != nil {
		ts := *b.StartTime
		c.StartTime = &ts
	}
	if b.EndTime != nil {
		ts := *b.EndTime
		c.EndTime = &ts
	}
	if b.QuotedPrice != nil {
		c.QuotedPrice = floatPtr(*b.QuotedPrice)
	}
	if b.FinalPrice != nil {
		c.FinalPrice = floatPtr(*b.FinalPrice)
	}
	return &c
}

// UpdateStatus changes the booking status and optionally its prices
func (b *Booking) UpdateStatus(status types.BookingStatus, quoted, final *float64) error {
	if !status.IsValid() {
		return NewValidationError("Invalid status. Must be one of: "+types.BookingStatusList(),
			goerr.V("status", status))
	}
	b.Status = status
	if quoted != nil {
		b.QuotedPrice = floatPtr(*quoted)
	}
	if final != nil {
		b.FinalPrice = floatPtr(*final)
	}
	b.UpdatedAt = time.Now()
	return nil
}

// Confirm marks the booking as paid for amount
func (b *Booking) Confirm(amount float64) {
	b.Status = types.BookingStatusConfirmed
	b.FinalPrice = floatPtr(amount)
	b.UpdatedAt = time.Now()
}

// Cancel marks the booking as cancelled
func (b *Booking) Cancel() {
	b.Status = types.BookingStatusCancelled
	b.UpdatedAt = time.Now()
}

// CommittedAmount returns the final price, falling back to the quote
func (b *Booking) CommittedAmount() float64 {
	if b.FinalPrice != nil {
		return *b.FinalPrice
	}
	if b.QuotedPrice != nil {
		return *b.QuotedPrice
	}
	return 0
}

// IsPaid reports whether the booking appears in payment history
func (b *Booking) IsPaid() bool {
	return (b.Status == types.BookingStatusConfirmed || b.Status == types.BookingStatusCompleted) &&
		b.FinalPrice != nil
}

// BookingServiceDetails describes the requested service
type BookingServiceDetails struct {
	ServiceName    string
	Specifications map[string]any
}

// CreateBookingRequest holds the fields submitted to create a booking
type CreateBookingRequest struct {
	EventID        string
	VendorID       string
	VenueID        string
	ServiceDetails *BookingServiceDetails
	ServiceDate    string
	StartTime      string
	EndTime        string
	Message        string
}

// UpdateBookingStatusRequest changes a booking status
type UpdateBookingStatusRequest struct {
	Status      string
	QuotedPrice *float64
	FinalPrice  *float64
}

// BookingFilter narrows a booking listing
type BookingFilter struct {
	Status  string
	EventID string
	Page    int
	Limit   int
}
