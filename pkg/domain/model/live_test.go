package model_test

import (
	"testing"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestNewAlertDefaults(t *testing.T) {
	alert := model.NewAlert("evt_1", model.AlertRequest{Message: "Doors open"})
	gt.Equal(t, alert.Type, "info")
	gt.Equal(t, alert.Severity, "medium")
	gt.Equal(t, alert.Title, "Event Alert")
	gt.Equal(t, alert.Category, "general")
	gt.Equal(t, alert.Recipients, []string{"event_staff"})
	gt.Equal(t, alert.Status, types.AlertStatusActive)
	gt.A(t, alert.Actions).Length(0)

	alert.Resolve(time.Now())
	gt.True(t, alert.IsResolved())
	gt.NotNil(t, alert.ResolvedAt)
}

func TestApplyDeviceControl(t *testing.T) {
	now := time.Now()

	t.Run("defaults merged with parameters", func(t *testing.T) {
		state, result := model.ApplyDeviceControl("evt_1", nil, model.DeviceControlRequest{
			DeviceType: "lighting",
			Action:     "dim",
			Parameters: map[string]any{"brightness": 40.0, "unknown": "ignored"},
		}, now)
		gt.NotNil(t, state)
		gt.Equal(t, result.Status, "success")
		gt.Equal(t, result.DeviceID, "light_001")
		gt.Equal(t, result.CurrentState["brightness"], any(40.0))
		gt.Equal(t, result.CurrentState["color"], any("#FFFFFF"))
		gt.Equal(t, result.CurrentState["mode"], any("event"))
		_, hasUnknown := result.CurrentState["unknown"]
		gt.False(t, hasUnknown)
		gt.Equal(t, state.LastAction, "dim")
	})

	t.Run("previous state kept", func(t *testing.T) {
		previous := &model.DeviceState{
			EventID:    "evt_1",
			DeviceType: types.DeviceTypeSound,
			State:      map[string]any{"volume": 30.0, "source": "playlist", "equalizer": "speech"},
		}
		_, result := model.ApplyDeviceControl("evt_1", previous, model.DeviceControlRequest{
			DeviceType: "sound",
			Action:     "eq",
			Parameters: map[string]any{"equalizer": "music"},
		}, now)
		gt.Equal(t, result.CurrentState["volume"], any(30.0))
		gt.Equal(t, result.CurrentState["source"], any("playlist"))
		gt.Equal(t, result.CurrentState["equalizer"], any("music"))
	})

	t.Run("unsupported device", func(t *testing.T) {
		state, result := model.ApplyDeviceControl("evt_1", nil, model.DeviceControlRequest{DeviceType: "fog", Action: "on"}, now)
		gt.Nil(t, state)
		gt.Equal(t, result.DeviceID, "unknown")
		gt.Equal(t, result.Status, "error")
		gt.Equal(t, result.Message, "Device type not supported")
	})
}

func TestVendorStatusRequestApply(t *testing.T) {
	now := time.Now()
	checkpoint := &model.VendorCheckpoint{Status: types.VendorLiveStatusPending}

	progress := 60
	notes := "Setting up lights"
	gt.NoError(t, model.VendorStatusRequest{Status: "arrived", SetupProgress: &progress, Notes: &notes}.Apply(checkpoint, now))
	gt.Equal(t, checkpoint.Status, types.VendorLiveStatusArrived)
	gt.Equal(t, checkpoint.SetupProgress, 60)
	gt.NotNil(t, checkpoint.ArrivalTime)

	bad := 101
	gt.Error(t, model.VendorStatusRequest{SetupProgress: &bad}.Apply(checkpoint, now))
	gt.Error(t, model.VendorStatusRequest{Status: "lost"}.Apply(checkpoint, now))
}

func TestMergeVendorStatus(t *testing.T) {
	photo := &model.Vendor{ID: "vnd_1", BusinessName: "Capture Moments", Category: "photography"}
	catering := &model.Vendor{ID: "vnd_2", BusinessName: "Gourmet", Category: "catering"}
	arrival := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

	views := model.MergeVendorStatus([]*model.Vendor{photo, catering}, []*model.VendorCheckpoint{
		{VendorID: "vnd_1", Status: types.VendorLiveStatusSetupComplete, SetupProgress: 100, ArrivalTime: &arrival, UpdatedAt: arrival},
	})
	gt.A(t, views).Length(2)
	gt.Equal(t, views[0].Status, "setup_complete")
	gt.Equal(t, views[0].ArrivalTime, "12:00")
	gt.Equal(t, views[1].Status, "pending")
	gt.Equal(t, views[1].SetupProgress, 0)
}

func TestBuildLiveDashboard(t *testing.T) {
	start := time.Date(2025, 9, 15, 9, 0, 0, 0, time.UTC)
	now := start.Add(2*time.Hour + 30*time.Minute)
	expected := 4
	event := &model.Event{ID: "evt_1", Title: "Summit", StartDate: start, Status: types.EventStatusInProgress, ExpectedAttendees: &expected}

	var checkins []*model.CheckIn
	for i, name := range []string{"Ann", "Ben", "Cat"} {
		checkins = append(checkins, &model.CheckIn{GuestName: name, CheckedInAt: start.Add(time.Duration(i) * time.Minute)})
	}
	resolved := model.NewAlert("evt_1", model.AlertRequest{Message: "old"})
	resolved.Resolve(now)

	dashboard := model.BuildLiveDashboard(&model.LiveSnapshot{
		Event:    event,
		CheckIns: checkins,
		Vendors: []*model.VendorLiveView{
			{Status: "setup_complete"}, {Status: "issue"}, {Status: "arrived"}, {Status: "pending"},
		},
		Devices: []*model.DeviceState{
			{DeviceType: types.DeviceTypeClimate, State: map[string]any{"temperature": 20.5, "humidity": 45}},
			{DeviceType: types.DeviceTypeLighting, State: map[string]any{"brightness": 60, "mode": "dinner"}},
		},
		Alerts: []*model.Alert{model.NewAlert("evt_1", model.AlertRequest{Message: "AV issue", Type: "warning"}), resolved},
	}, now)

	gt.Equal(t, dashboard.Overview.Duration, "2h 30m")
	gt.Equal(t, dashboard.Overview.EventStatus, "in_progress")
	gt.Equal(t, dashboard.Attendance.CheckedIn, 3)
	gt.Equal(t, dashboard.Attendance.Expected, 4)
	gt.Equal(t, dashboard.Attendance.CheckinRate, 75)
	gt.Equal(t, dashboard.Attendance.RecentCheckins[0].GuestName, "Cat")
	gt.Equal(t, dashboard.Vendors.Total, 4)
	gt.Equal(t, dashboard.Vendors.Arrived, 2)
	gt.Equal(t, dashboard.Vendors.SetupComplete, 1)
	gt.Equal(t, dashboard.Vendors.Issues, 1)
	gt.Equal(t, dashboard.Environment.Temperature, 20.5)
	gt.Equal(t, dashboard.Environment.Humidity, 45.0)
	gt.Equal(t, dashboard.Environment.Lighting.Level, 60.0)
	gt.Equal(t, dashboard.Environment.Lighting.Mode, "dinner_mode")
	gt.Equal(t, dashboard.Environment.Sound.Level, 75.0)
	gt.A(t, dashboard.Alerts).Length(1)
	gt.Equal(t, dashboard.Alerts[0].Message, "AV issue")
}

func TestBuildLiveDashboardDefaults(t *testing.T) {
	start := time.Now().Add(time.Hour)
	event := &model.Event{ID: "evt_1", StartDate: start, Status: types.EventStatusConfirmed}

	dashboard := model.BuildLiveDashboard(&model.LiveSnapshot{Event: event}, time.Now())
	gt.Equal(t, dashboard.Overview.Duration, "0h 0m")
	gt.Equal(t, dashboard.Attendance.Expected, 100)
	gt.Equal(t, dashboard.Attendance.CheckinRate, 0)
	gt.Equal(t, dashboard.Environment.Lighting.Mode, "event_mode")
	gt.A(t, dashboard.Alerts).Length(0)
	gt.A(t, dashboard.Vendors.Status).Length(0)
}

func TestNewCheckInResult(t *testing.T) {
	event := &model.Event{Title: "Tech Summit 2025"}
	at := time.Unix(1757926800, 0)
	checkin := &model.CheckIn{GuestID: "g42", GuestName: "Ann", CheckedInAt: at}

	result := model.NewCheckInResult(event, checkin, false)
	gt.Equal(t, result.Status, "checked_in")
	gt.Equal(t, result.QRCode, "checkin_g42_1757926800")
	gt.Equal(t, result.WelcomeMessage, "Welcome to Tech Summit 2025!")
	gt.Nil(t, result.SeatAssignment)
	gt.A(t, result.SpecialRequests).Length(0)

	again := model.NewCheckInResult(event, checkin, true)
	gt.Equal(t, again.Status, "already_checked_in")
}
