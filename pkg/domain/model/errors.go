package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/m-mizutani/goerr/v2"
)

// Error tags classify failures for API clients. The tag name is the error code.
var (
	ErrTagValidation         = goerr.NewTag("VALIDATION_ERROR")
	ErrTagUnauthorized       = goerr.NewTag("UNAUTHORIZED")
	ErrTagInvalidCredentials = goerr.NewTag("INVALID_CREDENTIALS")
	ErrTagAccountDisabled    = goerr.NewTag("ACCOUNT_DISABLED")
	ErrTagForbidden          = goerr.NewTag("FORBIDDEN")
	ErrTagUserNotFound       = goerr.NewTag("USER_NOT_FOUND")
	ErrTagEventNotFound      = goerr.NewTag("EVENT_NOT_FOUND")
	ErrTagVendorNotFound     = goerr.NewTag("VENDOR_NOT_FOUND")
	ErrTagVenueNotFound      = goerr.NewTag("VENUE_NOT_FOUND")
	ErrTagBookingNotFound    = goerr.NewTag("BOOKING_NOT_FOUND")
	ErrTagTaskNotFound       = goerr.NewTag("TASK_NOT_FOUND")
	ErrTagAlertNotFound      = goerr.NewTag("ALERT_NOT_FOUND")
	ErrTagUserExists         = goerr.NewTag("USER_EXISTS")
	ErrTagPaymentError       = goerr.NewTag("PAYMENT_ERROR")
	ErrTagPaymentFailed      = goerr.NewTag("PAYMENT_FAILED")
)

// errorCodes lists every tag most specific first. The tag name is the code reported to clients.
var errorCodes = []fmt.Stringer{
	ErrTagUnauthorized,
	ErrTagInvalidCredentials,
	ErrTagAccountDisabled,
	ErrTagForbidden,
	ErrTagUserNotFound,
	ErrTagEventNotFound,
	ErrTagVendorNotFound,
	ErrTagVenueNotFound,
	ErrTagBookingNotFound,
	ErrTagTaskNotFound,
	ErrTagAlertNotFound,
	ErrTagUserExists,
	ErrTagPaymentFailed,
	ErrTagPaymentError,
	ErrTagValidation,
}

// ErrorCode returns the client error code of err, or an empty string for untagged errors
func ErrorCode(err error) string {
	for _, tag := range errorCodes {
		if HasTag(err, tag) {
			return tag.String()
		}
	}
	return ""
}

// Sentinel errors for domain operations. Their messages are shown to clients.
var (
	ErrUserNotFound    = goerr.New("User not found", goerr.T(ErrTagUserNotFound))
	ErrSessionNotFound = goerr.New("Session not found", goerr.T(ErrTagUnauthorized))
	ErrEventNotFound   = goerr.New("Event not found", goerr.T(ErrTagEventNotFound))
	ErrVendorNotFound  = goerr.New("Vendor not found", goerr.T(ErrTagVendorNotFound))
	ErrVenueNotFound   = goerr.New("Venue not found", goerr.T(ErrTagVenueNotFound))
	ErrBookingNotFound = goerr.New("Booking not found", goerr.T(ErrTagBookingNotFound))
	ErrTaskNotFound    = goerr.New("Task not found", goerr.T(ErrTagTaskNotFound))
	ErrPaymentNotFound = goerr.New("Payment intent not found", goerr.T(ErrTagPaymentError))
	ErrAlertNotFound   = goerr.New("Alert not found", goerr.T(ErrTagAlertNotFound))
)

// NewValidationError creates a client-facing validation error
func NewValidationError(msg string, opts ...goerr.Option) error {
	return goerr.New(msg, append(opts, goerr.T(ErrTagValidation))...)
}

// NewMissingFieldError creates the validation error for an absent required field
func NewMissingFieldError(field string) error {
	return NewValidationError("Missing required field: "+field, goerr.V("field", field))
}

// HasTag reports whether err or any error it wraps carries tag. Tags are
// matched by name so plain fmt wrapping between goerr layers is tolerated.
func HasTag(err error, tag fmt.Stringer) bool {
	want := tag.String()
	for e := err; e != nil; e = errors.Unwrap(e) {
		if slices.Contains(goerr.Tags(e), want) {
			return true
		}
	}
	return false
}

// RootMessage returns the message of the innermost error in the chain
func RootMessage(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
