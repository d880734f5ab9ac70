package model

import (
	"math"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/types"
)

// DefaultPaymentDescription is used when a payment has no description
const DefaultPaymentDescription = "EventGrid Payment"

// DefaultPaymentMethod is the payment method used when none is given
const DefaultPaymentMethod = "pm_card_visa"

// PaymentIntent is a pending charge held by the payment gateway
type PaymentIntent struct {
	ID            types.PaymentIntentID
	ClientSecret  string
	Amount        int64 // Minor units
	Currency      string
	Status        types.PaymentStatus
	PaymentMethod string
	UserID        types.UserID
	BookingID     types.BookingID
	EventID       types.EventID
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AmountMajor returns the amount in major currency units
func (p *PaymentIntent) AmountMajor() float64 {
	return FromMinorUnits(p.Amount)
}

// Copy returns a copy of the intent
func (p *PaymentIntent) Copy() *PaymentIntent {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// ToMinorUnits converts an amount to cents
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromMinorUnits converts cents to an amount
func FromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}

// CreatePaymentIntentRequest holds the fields submitted to start a payment
type CreatePaymentIntentRequest struct {
	Amount      float64
	Currency    string
	BookingID   string
	EventID     string
	Description string
}

// PaymentIntentParams is what the gateway needs to create an intent
type PaymentIntentParams struct {
	Amount      int64
	Currency    string
	UserID      types.UserID
	BookingID   types.BookingID
	EventID     types.EventID
	Description string
}

// ConfirmPaymentRequest confirms a previously created intent
type ConfirmPaymentRequest struct {
	PaymentIntentID string
	PaymentMethod   string
}

// PaymentConfirmation is the result of a successful confirmation
type PaymentConfirmation struct {
	Status        types.PaymentStatus
	Amount        float64
	Currency      string
	PaymentMethod string
}

// PaymentRecord is one entry of a user's payment history
type PaymentRecord struct {
	BookingID   types.BookingID
	EventTitle  string
	ServiceName string
	Amount      float64
	Currency    string
	Status      types.BookingStatus
	PaymentDate time.Time
	VendorName  string
	VenueName   string
}

// Webhook event types emitted by the payment gateway
const (
	WebhookPaymentSucceeded = "payment_intent.succeeded"
	WebhookPaymentFailed    = "payment_intent.payment_failed"
)

// WebhookEvent is a payment gateway notification
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object WebhookPaymentIntent `json:"object"`
	} `json:"data"`
}

// WebhookPaymentIntent is the intent carried by a webhook event
type WebhookPaymentIntent struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

// BookingID returns the booking linked through the intent metadata
func (w *WebhookPaymentIntent) BookingID() types.BookingID {
	return types.BookingID(strings.TrimSpace(w.Metadata["booking_id"]))
}
