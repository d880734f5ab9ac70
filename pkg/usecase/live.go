package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/service/live"
	"github.com/eventgrid/eventgrid/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Live implements LiveUseCase
type Live struct {
	repo     interfaces.Repository
	broker   interfaces.LiveBroker
	notifier interfaces.AlertNotifier
	now      func() time.Time
}

// LiveOption configures Live
type LiveOption func(*Live)

// WithLiveBroker replaces the in-process broker
func WithLiveBroker(broker interfaces.LiveBroker) LiveOption {
	return func(l *Live) {
		l.broker = broker
	}
}

// WithAlertNotifier forwards raised alerts to an external channel
func WithAlertNotifier(notifier interfaces.AlertNotifier) LiveOption {
	return func(l *Live) {
		l.notifier = notifier
	}
}

// WithLiveClock replaces the clock used for timestamps
func WithLiveClock(now func() time.Time) LiveOption {
	return func(l *Live) {
		l.now = now
	}
}

// NewLive creates a new Live use case
func NewLive(repo interfaces.Repository, opts ...LiveOption) LiveUseCase {
	l := &Live{
		repo:   repo,
		broker: live.NewBroker(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// bookedVendors returns the distinct vendors with a non-cancelled booking for the event
func (u *Live) bookedVendors(ctx context.Context, eventID types.EventID) ([]*model.Vendor, error) {
	bookings, err := u.repo.ListBookingsByEvent(ctx, eventID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list bookings", goerr.V("eventID", eventID))
	}

	seen := map[types.VendorID]struct{}{}
	var vendors []*model.Vendor
	for _, b := range bookings {
		if b.VendorID == "" || b.Status == types.BookingStatusCancelled {
			continue
		}
		if _, ok := seen[b.VendorID]; ok {
			continue
		}
		seen[b.VendorID] = struct{}{}

		vendor, err := u.repo.GetVendor(ctx, b.VendorID)
		if err != nil {
			if model.HasTag(err, model.ErrTagVendorNotFound) {
				ctxlog.From(ctx).Warn("Booked vendor not found",
					"eventID", eventID,
					"vendorID", b.VendorID,
				)
				continue
			}
			return nil, goerr.Wrap(err, "failed to get vendor", goerr.V("vendorID", b.VendorID))
		}
		vendors = append(vendors, vendor)
	}
	return vendors, nil
}

func (u *Live) vendorViews(ctx context.Context, eventID types.EventID) ([]*model.VendorLiveView, error) {
	vendors, err := u.bookedVendors(ctx, eventID)
	if err != nil {
		return nil, err
	}
	checkpoints, err := u.repo.ListVendorCheckpoints(ctx, eventID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list vendor checkpoints", goerr.V("eventID", eventID))
	}
	return model.MergeVendorStatus(vendors, checkpoints), nil
}

// Dashboard computes the live dashboard of an event
func (u *Live) Dashboard(ctx context.Context, organizerID types.UserID, eventID types.EventID) (*model.LiveDashboard, error) {
	event, err := ownedEvent(ctx, u.repo, organizerID, eventID)
	if err != nil {
		return nil, err
	}

	checkIns, err := u.repo.ListCheckIns(ctx, eventID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list check-ins", goerr.V("eventID", eventID))
	}
	vendors, err := u.vendorViews(ctx, eventID)
	if err != nil {
		return nil, err
	}
	devices, err := u.repo.ListDeviceStates(ctx, eventID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list device states", goerr.V("eventID", eventID))
	}
	alerts, err := u.repo.ListAlerts(ctx, eventID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list alerts", goerr.V("eventID", eventID))
	}

	return model.BuildLiveDashboard(&model.LiveSnapshot{
		Event:    event,
		CheckIns: checkIns,
		Vendors:  vendors,
		Devices:  devices,
		Alerts:   alerts,
	}, u.now()), nil
}

// CheckIn records a guest arrival. A guest checks in once; repeats return the original record.
func (u *Live) CheckIn(ctx context.Context, organizerID types.UserID, eventID types.EventID, req *model.CheckInRequest) (*model.CheckInResult, error) {
	if req == nil || strings.TrimSpace(req.GuestID) == "" {
		return nil, model.NewValidationError("Guest ID is required")
	}
	event, err := ownedEvent(ctx, u.repo, organizerID, eventID)
	if err != nil {
		return nil, err
	}

	checkIn := &model.CheckIn{
		ID:              types.NewCheckInID(),
		EventID:         eventID,
		GuestID:         req.GuestID,
		GuestName:       req.GuestName,
		SeatAssignment:  req.SeatAssignment,
		SpecialRequests: req.SpecialRequests,
		CheckedInAt:     u.now(),
	}
	if strings.TrimSpace(checkIn.GuestName) == "" {
		checkIn.GuestName = "Unknown Guest"
	}
	stored, err := u.repo.CreateCheckIn(ctx, checkIn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save check-in", goerr.V("eventID", eventID))
	}
	if stored.ID != checkIn.ID {
		return model.NewCheckInResult(event, stored, true), nil
	}
	u.broker.Publish(eventID)

	ctxlog.From(ctx).Info("Guest checked in",
		"eventID", eventID,
		"guestID", checkIn.GuestID,
	)
	return model.NewCheckInResult(event, checkIn, false), nil
}

// VendorStatuses lists the on-site status of the event's booked vendors
func (u *Live) VendorStatuses(ctx context.Context, organizerID types.UserID, eventID types.EventID) ([]*model.VendorLiveView, error) {
	if _, err := ownedEvent(ctx, u.repo, organizerID, eventID); err != nil {
		return nil, err
	}
	return u.vendorViews(ctx, eventID)
}

// UpdateVendorStatus records the progress of a vendor booked for the event
func (u *Live) UpdateVendorStatus(ctx context.Context, organizerID types.UserID, eventID types.EventID, vendorID types.VendorID, req model.VendorStatusRequest) (*model.VendorLiveView, error) {
	if _, err := ownedEvent(ctx, u.repo, organizerID, eventID); err != nil {
		return nil, err
	}

	vendors, err := u.bookedVendors(ctx, eventID)
	if err != nil {
		return nil, err
	}
	var vendor *model.Vendor
	for _, v := range vendors {
		if v.ID == vendorID {
			vendor = v
			break
		}
	}
	if vendor == nil {
		return nil, goerr.Wrap(model.ErrVendorNotFound, "vendor is not booked for the event",
			goerr.V("eventID", eventID), goerr.V("vendorID", vendorID))
	}

	checkpoints, err := u.repo.ListVendorCheckpoints(ctx, eventID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list vendor checkpoints", goerr.V("eventID", eventID))
	}
	checkpoint := &model.VendorCheckpoint{
		EventID:  eventID,
		VendorID: vendorID,
		Status:   types.VendorLiveStatusPending,
	}
	for _, c := range checkpoints {
		if c.VendorID == vendorID {
			checkpoint = c
			break
		}
	}

	if err := req.Apply(checkpoint, u.now()); err != nil {
		return nil, err
	}
	if err := u.repo.PutVendorCheckpoint(ctx, checkpoint); err != nil {
		return nil, goerr.Wrap(err, "failed to save vendor checkpoint",
			goerr.V("eventID", eventID), goerr.V("vendorID", vendorID))
	}
	u.broker.Publish(eventID)

	ctxlog.From(ctx).Info("Vendor status updated",
		"eventID", eventID,
		"vendorID", vendorID,
		"status", checkpoint.Status,
		"progress", checkpoint.SetupProgress,
	)

	views := model.MergeVendorStatus([]*model.Vendor{vendor}, []*model.VendorCheckpoint{checkpoint})
	return views[0], nil
}

// RaiseAlert stores an active alert and forwards it to the notifier when configured
func (u *Live) RaiseAlert(ctx context.Context, organizerID types.UserID, eventID types.EventID, req model.AlertRequest) (*model.Alert, error) {
	event, err := ownedEvent(ctx, u.repo, organizerID, eventID)
	if err != nil {
		return nil, err
	}

	alert := model.NewAlert(eventID, req)
	alert.CreatedAt = u.now()
	if err := u.repo.PutAlert(ctx, alert); err != nil {
		return nil, goerr.Wrap(err, "failed to save alert", goerr.V("eventID", eventID))
	}
	u.broker.Publish(eventID)

	ctxlog.From(ctx).Info("Alert raised",
		"eventID", eventID,
		"alertID", alert.ID,
		"severity", alert.Severity,
	)

	if u.notifier != nil {
		notified := alert.Copy()
		async.Dispatch(ctx, func(ctx context.Context) error {
			return u.notifier.NotifyAlert(ctx, event, notified)
		})
	}
	return alert, nil
}

// ListAlerts returns the event's alerts, newest first
func (u *Live) ListAlerts(ctx context.Context, organizerID types.UserID, eventID types.EventID) ([]*model.Alert, error) {
	if _, err := ownedEvent(ctx, u.repo, organizerID, eventID); err != nil {
		return nil, err
	}
	alerts, err := u.repo.ListAlerts(ctx, eventID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list alerts", goerr.V("eventID", eventID))
	}
	return alerts, nil
}

// ResolveAlert marks an alert as resolved. Resolving twice keeps the first resolution time.
func (u *Live) ResolveAlert(ctx context.Context, organizerID types.UserID, eventID types.EventID, alertID types.AlertID) (*model.Alert, error) {
	if _, err := ownedEvent(ctx, u.repo, organizerID, eventID); err != nil {
		return nil, err
	}

	alert, err := u.repo.GetAlert(ctx, eventID, alertID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get alert", goerr.V("eventID", eventID), goerr.V("alertID", alertID))
	}
	if alert.IsResolved() {
		return alert, nil
	}

	alert.Resolve(u.now())
	if err := u.repo.PutAlert(ctx, alert); err != nil {
		return nil, goerr.Wrap(err, "failed to save alert", goerr.V("alertID", alertID))
	}
	u.broker.Publish(eventID)

	ctxlog.From(ctx).Info("Alert resolved",
		"eventID", eventID,
		"alertID", alertID,
	)
	return alert, nil
}

// ControlDevice applies a control action to a venue system and persists its state
func (u *Live) ControlDevice(ctx context.Context, organizerID types.UserID, eventID types.EventID, req model.DeviceControlRequest) (*model.DeviceControlResult, error) {
	if _, err := ownedEvent(ctx, u.repo, organizerID, eventID); err != nil {
		return nil, err
	}

	devices, err := u.repo.ListDeviceStates(ctx, eventID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list device states", goerr.V("eventID", eventID))
	}
	var previous *model.DeviceState
	for _, d := range devices {
		if string(d.DeviceType) == req.DeviceType {
			previous = d
			break
		}
	}

	state, result := model.ApplyDeviceControl(eventID, previous, req, u.now())
	if state == nil {
		ctxlog.From(ctx).Warn("Unsupported device control",
			"eventID", eventID,
			"deviceType", req.DeviceType,
		)
		return result, nil
	}

	if err := u.repo.PutDeviceState(ctx, state); err != nil {
		return nil, goerr.Wrap(err, "failed to save device state",
			goerr.V("eventID", eventID), goerr.V("deviceType", req.DeviceType))
	}
	u.broker.Publish(eventID)

	ctxlog.From(ctx).Info("Device controlled",
		"eventID", eventID,
		"deviceType", state.DeviceType,
		"action", req.Action,
	)
	return result, nil
}

// Subscribe signals the caller whenever the event's live data changes
func (u *Live) Subscribe(ctx context.Context, organizerID types.UserID, eventID types.EventID) (<-chan struct{}, func(), error) {
	if _, err := ownedEvent(ctx, u.repo, organizerID, eventID); err != nil {
		return nil, nil, err
	}
	ch, cancel := u.broker.Subscribe(eventID)
	return ch, cancel, nil
}
