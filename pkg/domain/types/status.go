package types

import "strings"

// EventStatus represents the lifecycle state of an event
type EventStatus string

const (
	EventStatusDraft      EventStatus = "draft"
	EventStatusPlanning   EventStatus = "planning"
	EventStatusConfirmed  EventStatus = "confirmed"
	EventStatusInProgress EventStatus = "in_progress"
	EventStatusCompleted  EventStatus = "completed"
	EventStatusCancelled  EventStatus = "cancelled"
)

// String returns the string representation of the status
func (s EventStatus) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPlanning, EventStatusConfirmed,
		EventStatusInProgress, EventStatusCompleted, EventStatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether an event in this status is still being worked on
func (s EventStatus) IsActive() bool {
	return s != EventStatusCompleted && s != EventStatusCancelled
}

// Visibility controls who can discover an event
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
)

// IsValid checks if the visibility is valid
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityUnlisted:
		return true
	default:
		return false
	}
}

// BookingStatus represents the negotiation state of a booking
type BookingStatus string

const (
	BookingStatusInquiry     BookingStatus = "inquiry"
	BookingStatusQuoted      BookingStatus = "quoted"
	BookingStatusNegotiating BookingStatus = "negotiating"
	BookingStatusConfirmed   BookingStatus = "confirmed"
	BookingStatusInProgress  BookingStatus = "in_progress"
	BookingStatusCompleted   BookingStatus = "completed"
	BookingStatusCancelled   BookingStatus = "cancelled"
)

// BookingStatuses lists all booking statuses in lifecycle order
var BookingStatuses = []BookingStatus{
	BookingStatusInquiry,
	BookingStatusQuoted,
	BookingStatusNegotiating,
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// IsValid checks if the status is valid
func (s BookingStatus) IsValid() bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// BookingStatusList returns the statuses joined for messages
func BookingStatusList() string {
	names := make([]string, len(BookingStatuses))
	for i, s := range BookingStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// TaskPriority represents the urgency of a dashboard task
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// IsValid checks if the priority is valid
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	default:
		return false
	}
}

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusTodo      TaskStatus = "todo"
	TaskStatusCompleted TaskStatus = "completed"
)

// IsValid checks if the status is valid
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusTodo || s == TaskStatusCompleted
}

// VendorLiveStatus represents the on-site state of a booked vendor during an event
type VendorLiveStatus string

const (
	VendorLiveStatusPending       VendorLiveStatus = "pending"
	VendorLiveStatusArrived       VendorLiveStatus = "arrived"
	VendorLiveStatusInProgress    VendorLiveStatus = "in_progress"
	VendorLiveStatusSetupComplete VendorLiveStatus = "setup_complete"
	VendorLiveStatusIssue         VendorLiveStatus = "issue"
)

// IsValid checks if the status is valid
func (s VendorLiveStatus) IsValid() bool {
	switch s {
	case VendorLiveStatusPending, VendorLiveStatusArrived, VendorLiveStatusInProgress,
		VendorLiveStatusSetupComplete, VendorLiveStatusIssue:
		return true
	default:
		return false
	}
}

// HasArrived reports whether the vendor is on site
func (s VendorLiveStatus) HasArrived() bool {
	return s == VendorLiveStatusArrived || s == VendorLiveStatusInProgress || s == VendorLiveStatusSetupComplete
}

// DeviceType identifies a controllable venue system
type DeviceType string

const (
	DeviceTypeLighting DeviceType = "lighting"
	DeviceTypeSound    DeviceType = "sound"
	DeviceTypeClimate  DeviceType = "climate"
	DeviceTypeScreens  DeviceType = "screens"
)

// IsValid checks if the device type is supported
func (d DeviceType) IsValid() bool {
	switch d {
	case DeviceTypeLighting, DeviceTypeSound, DeviceTypeClimate, DeviceTypeScreens:
		return true
	default:
		return false
	}
}

// PaymentStatus represents the state of a payment intent
type PaymentStatus string

const (
	PaymentStatusRequiresConfirmation  PaymentStatus = "requires_confirmation"
	PaymentStatusSucceeded             PaymentStatus = "succeeded"
	PaymentStatusRequiresPaymentMethod PaymentStatus = "requires_payment_method"
	PaymentStatusCanceled              PaymentStatus = "canceled"
)

// AlertStatus represents whether a live alert still needs attention
type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "active"
	AlertStatusResolved AlertStatus = "resolved"
)
