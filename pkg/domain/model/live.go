package model

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const defaultExpectedAttendees = 100

// CheckIn records the arrival of a guest at a live event
type CheckIn struct {
	ID              types.CheckInID
	EventID         types.EventID
	GuestID         string
	GuestName       string
	SeatAssignment  string
	SpecialRequests []string
	CheckedInAt     time.Time
}

// Copy returns a deep copy of the check-in
func (c *CheckIn) Copy() *CheckIn {
	if c == nil {
		return nil
	}
	out := *c
	out.SpecialRequests = slices.Clone(c.SpecialRequests)
	return &out
}

// CheckInRequest holds the fields submitted at the door
type CheckInRequest struct {
	GuestID         string
	GuestName       string
	SeatAssignment  string
	SpecialRequests []string
}

// CheckInResult is returned to the door staff after a check-in
type CheckInResult struct {
	GuestID         string   `json:"guestId"`
	GuestName       string   `json:"guestName"`
	CheckinTime     string   `json:"checkinTime"`
	Status          string   `json:"status"`
	SeatAssignment  *string  `json:"seatAssignment"`
	SpecialRequests []string `json:"specialRequests"`
	QRCode          string   `json:"qrCode"`
	WelcomeMessage  string   `json:"welcomeMessage"`
}

// NewCheckInResult builds the door response for a check-in
func NewCheckInResult(event *Event, c *CheckIn, alreadyCheckedIn bool) *CheckInResult {
	status := "checked_in"
	if alreadyCheckedIn {
		status = "already_checked_in"
	}
	var seat *string
	if c.SeatAssignment != "" {
		s := c.SeatAssignment
		seat = &s
	}
	requests := slices.Clone(c.SpecialRequests)
	if requests == nil {
		requests = []string{}
	}
	return &CheckInResult{
		GuestID:         c.GuestID,
		GuestName:       c.GuestName,
		CheckinTime:     c.CheckedInAt.UTC().Format(time.RFC3339),
		Status:          status,
		SeatAssignment:  seat,
		SpecialRequests: requests,
		QRCode:          fmt.Sprintf("checkin_%s_%d", c.GuestID, c.CheckedInAt.Unix()),
		WelcomeMessage:  fmt.Sprintf("Welcome to %s!", event.Title),
	}
}

// Alert is a notification raised during a live event
type Alert struct {
	ID          types.AlertID
	EventID     types.EventID
	Type        string
	Severity    string
	Title       string
	Message     string
	Category    string
	Recipients  []string
	Actions     []any
	AutoResolve bool
	Status      types.AlertStatus
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

// Copy returns a copy of the alert
func (a *Alert) Copy() *Alert {
	if a == nil {
		return nil
	}
	c := *a
	c.Recipients = slices.Clone(a.Recipients)
	c.Actions = slices.Clone(a.Actions)
	if a.ResolvedAt != nil {
		ts := *a.ResolvedAt
		c.ResolvedAt = &ts
	}
	return &c
}

// IsResolved reports whether the alert was resolved
func (a *Alert) IsResolved() bool {
	return a.Status == types.AlertStatusResolved
}

// Resolve closes the alert
func (a *Alert) Resolve(now time.Time) {
	a.Status = types.AlertStatusResolved
	a.ResolvedAt = &now
}

// AlertRequest holds the fields submitted to raise an alert. Empty fields take defaults.
type AlertRequest struct {
	Type        string
	Severity    string
	Title       string
	Message     string
	Category    string
	Recipients  []string
	Actions     []any
	AutoResolve bool
}

// NewAlert creates an active alert for an event, filling in defaults
func NewAlert(eventID types.EventID, req AlertRequest) *Alert {
	alert := &Alert{
		ID:          types.NewAlertID(),
		EventID:     eventID,
		Type:        orDefault(req.Type, "info"),
		Severity:    orDefault(req.Severity, "medium"),
		Title:       orDefault(req.Title, "Event Alert"),
		Message:     req.Message,
		Category:    orDefault(req.Category, "general"),
		Recipients:  slices.Clone(req.Recipients),
		Actions:     slices.Clone(req.Actions),
		AutoResolve: req.AutoResolve,
		Status:      types.AlertStatusActive,
		CreatedAt:   time.Now(),
	}
	if len(alert.Recipients) == 0 {
		alert.Recipients = []string{"event_staff"}
	}
	if alert.Actions == nil {
		alert.Actions = []any{}
	}
	return alert
}

// DeviceState is the last known state of a controllable venue system
type DeviceState struct {
	EventID    types.EventID
	DeviceType types.DeviceType
	DeviceID   string
	State      map[string]any
	LastAction string
	UpdatedAt  time.Time
}

// Copy returns a copy of the device state
func (d *DeviceState) Copy() *DeviceState {
	if d == nil {
		return nil
	}
	c := *d
	c.State = maps.Clone(d.State)
	return &c
}

type deviceDefaults struct {
	id    string
	state map[string]any
}

func defaultDevice(deviceType types.DeviceType) (deviceDefaults, bool) {
	switch deviceType {
	case types.DeviceTypeLighting:
		return deviceDefaults{"light_001", map[string]any{"brightness": 80, "color": "#FFFFFF", "mode": "event"}}, true
	case types.DeviceTypeSound:
		return deviceDefaults{"sound_001", map[string]any{"volume": 75, "source": "microphone", "equalizer": "speech"}}, true
	case types.DeviceTypeClimate:
		return deviceDefaults{"hvac_001", map[string]any{"temperature": 22, "humidity": 50, "airflow": "medium"}}, true
	case types.DeviceTypeScreens:
		return deviceDefaults{"display_001", map[string]any{"content": "welcome_slide", "brightness": 90, "mode": "presentation"}}, true
	default:
		return deviceDefaults{}, false
	}
}

// DeviceControlRequest asks a venue system to perform an action
type DeviceControlRequest struct {
	DeviceType string
	Action     string
	Parameters map[string]any
}

// DeviceControlResult reports the outcome of a device action
type DeviceControlResult struct {
	DeviceID     string         `json:"deviceId"`
	Type         string         `json:"type"`
	Action       string         `json:"action"`
	Status       string         `json:"status"`
	CurrentState map[string]any `json:"currentState,omitempty"`
	Message      string         `json:"message,omitempty"`
}

// ApplyDeviceControl merges the requested parameters over the previous state.
// Only parameters known to the device are applied. The returned state is nil
// for unsupported device types.
func ApplyDeviceControl(eventID types.EventID, previous *DeviceState, req DeviceControlRequest, now time.Time) (*DeviceState, *DeviceControlResult) {
	deviceType := types.DeviceType(req.DeviceType)
	defaults, ok := defaultDevice(deviceType)
	if !ok {
		return nil, &DeviceControlResult{
			DeviceID: "unknown",
			Type:     req.DeviceType,
			Action:   req.Action,
			Status:   "error",
			Message:  "Device type not supported",
		}
	}

	state := maps.Clone(defaults.state)
	if previous != nil {
		for k, v := range previous.State {
			if _, known := state[k]; known {
				state[k] = v
			}
		}
	}
	for k, v := range req.Parameters {
		if _, known := state[k]; known {
			state[k] = v
		}
	}

	next := &DeviceState{
		EventID:    eventID,
		DeviceType: deviceType,
		DeviceID:   defaults.id,
		State:      state,
		LastAction: req.Action,
		UpdatedAt:  now,
	}
	return next, &DeviceControlResult{
		DeviceID:     defaults.id,
		Type:         req.DeviceType,
		Action:       req.Action,
		Status:       "success",
		CurrentState: maps.Clone(state),
	}
}

// VendorCheckpoint is the on-site status of a vendor booked for an event
type VendorCheckpoint struct {
	EventID       types.EventID
	VendorID      types.VendorID
	Status        types.VendorLiveStatus
	SetupProgress int
	Location      string
	Contact       string
	Notes         string
	ArrivalTime   *time.Time
	UpdatedAt     time.Time
}

// Copy returns a copy of the checkpoint
func (c *VendorCheckpoint) Copy() *VendorCheckpoint {
	if c == nil {
		return nil
	}
	out := *c
	if c.ArrivalTime != nil {
		ts := *c.ArrivalTime
		out.ArrivalTime = &ts
	}
	return &out
}

// VendorStatusRequest updates a vendor checkpoint
type VendorStatusRequest struct {
	Status        string
	SetupProgress *int
	Location      *string
	Contact       *string
	Notes         *string
}

// Apply validates and merges the request into the checkpoint
func (r VendorStatusRequest) Apply(c *VendorCheckpoint, now time.Time) error {
	if r.Status != "" {
		status := types.VendorLiveStatus(r.Status)
		if !status.IsValid() {
			return NewValidationError("Invalid vendor status", goerr.V("status", r.Status))
		}
		c.Status = status
		if status.HasArrived() && c.ArrivalTime == nil {
			c.ArrivalTime = &now
		}
	}
	if r.SetupProgress != nil {
		if *r.SetupProgress < 0 || *r.SetupProgress > 100 {
			return NewValidationError("Setup progress must be between 0 and 100",
				goerr.V("setupProgress", *r.SetupProgress))
		}
		c.SetupProgress = *r.SetupProgress
	}
	if r.Location != nil {
		c.Location = *r.Location
	}
	if r.Contact != nil {
		c.Contact = *r.Contact
	}
	if r.Notes != nil {
		c.Notes = *r.Notes
	}
	c.UpdatedAt = now
	return nil
}

// VendorLiveView is a booked vendor merged with its checkpoint
type VendorLiveView struct {
	VendorID      string `json:"vendorId"`
	VendorName    string `json:"vendorName"`
	Category      string `json:"category"`
	Status        string `json:"status"`
	ArrivalTime   string `json:"arrivalTime,omitempty"`
	SetupProgress int    `json:"setupProgress"`
	Location      string `json:"location"`
	Contact       string `json:"contact"`
	Notes         string `json:"notes"`
	LastUpdate    string `json:"lastUpdate,omitempty"`
}

// MergeVendorStatus joins vendors with their checkpoints. Vendors without a
// checkpoint are reported as pending.
func MergeVendorStatus(vendors []*Vendor, checkpoints []*VendorCheckpoint) []*VendorLiveView {
	byVendor := make(map[types.VendorID]*VendorCheckpoint, len(checkpoints))
	for _, c := range checkpoints {
		byVendor[c.VendorID] = c
	}

	views := make([]*VendorLiveView, 0, len(vendors))
	for _, v := range vendors {
		view := &VendorLiveView{
			VendorID:   v.ID.String(),
			VendorName: v.BusinessName,
			Category:   v.Category,
			Status:     string(types.VendorLiveStatusPending),
		}
		if c, ok := byVendor[v.ID]; ok {
			view.Status = string(c.Status)
			view.SetupProgress = c.SetupProgress
			view.Location = c.Location
			view.Contact = c.Contact
			view.Notes = c.Notes
			if c.ArrivalTime != nil {
				view.ArrivalTime = c.ArrivalTime.UTC().Format("15:04")
			}
			if !c.UpdatedAt.IsZero() {
				view.LastUpdate = c.UpdatedAt.UTC().Format("15:04")
			}
		}
		views = append(views, view)
	}
	return views
}

// LiveDashboard is the real-time overview of an event in progress
type LiveDashboard struct {
	Overview    LiveOverview    `json:"overview"`
	Attendance  LiveAttendance  `json:"attendance"`
	Vendors     LiveVendors     `json:"vendors"`
	Environment LiveEnvironment `json:"environment"`
	Alerts      []LiveAlert     `json:"alerts"`
}

type LiveOverview struct {
	EventStatus string `json:"eventStatus"`
	StartTime   string `json:"startTime"`
	CurrentTime string `json:"currentTime"`
	Duration    string `json:"duration"`
}

type LiveAttendance struct {
	CheckedIn      int             `json:"checkedIn"`
	Expected       int             `json:"expected"`
	CheckinRate    int             `json:"checkinRate"`
	RecentCheckins []RecentCheckIn `json:"recentCheckins"`
}

type RecentCheckIn struct {
	GuestName string `json:"guestName"`
	Time      string `json:"time"`
	Status    string `json:"status"`
}

type LiveVendors struct {
	Total         int               `json:"total"`
	Arrived       int               `json:"arrived"`
	SetupComplete int               `json:"setupComplete"`
	Issues        int               `json:"issues"`
	Status        []*VendorLiveView `json:"status"`
}

type LiveEnvironment struct {
	Temperature float64      `json:"temperature"`
	Humidity    float64      `json:"humidity"`
	Lighting    LiveLighting `json:"lighting"`
	Sound       LiveSound    `json:"sound"`
}

type LiveLighting struct {
	Level float64 `json:"level"`
	Mode  string  `json:"mode"`
}

type LiveSound struct {
	Level  float64 `json:"level"`
	Status string  `json:"status"`
}

type LiveAlert struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Resolved  bool   `json:"resolved"`
}

// LiveSnapshot is everything the live dashboard is computed from
type LiveSnapshot struct {
	Event    *Event
	CheckIns []*CheckIn
	Vendors  []*VendorLiveView
	Devices  []*DeviceState
	Alerts   []*Alert
}

// BuildLiveDashboard computes the live dashboard at now
func BuildLiveDashboard(s *LiveSnapshot, now time.Time) *LiveDashboard {
	event := s.Event
	expected := event.ExpectedCount()
	if expected <= 0 {
		expected = defaultExpectedAttendees
	}

	checkins := slices.Clone(s.CheckIns)
	sort.Slice(checkins, func(i, j int) bool { return checkins[i].CheckedInAt.After(checkins[j].CheckedInAt) })
	recent := []RecentCheckIn{}
	for i, c := range checkins {
		if i >= 3 {
			break
		}
		recent = append(recent, RecentCheckIn{
			GuestName: c.GuestName,
			Time:      c.CheckedInAt.UTC().Format("15:04"),
			Status:    "checked_in",
		})
	}

	vendors := LiveVendors{Total: len(s.Vendors), Status: s.Vendors}
	if vendors.Status == nil {
		vendors.Status = []*VendorLiveView{}
	}
	for _, v := range s.Vendors {
		status := types.VendorLiveStatus(v.Status)
		if status.HasArrived() {
			vendors.Arrived++
		}
		if status == types.VendorLiveStatusSetupComplete {
			vendors.SetupComplete++
		}
		if status == types.VendorLiveStatusIssue {
			vendors.Issues++
		}
	}

	alerts := []LiveAlert{}
	for _, a := range s.Alerts {
		if a.IsResolved() {
			continue
		}
		alerts = append(alerts, LiveAlert{
			ID:        a.ID.String(),
			Type:      a.Type,
			Severity:  a.Severity,
			Title:     a.Title,
			Message:   a.Message,
			Timestamp: a.CreatedAt.UTC().Format("15:04"),
			Resolved:  false,
		})
	}

	return &LiveDashboard{
		Overview: LiveOverview{
			EventStatus: string(event.Status),
			StartTime:   event.StartDate.UTC().Format(time.RFC3339),
			CurrentTime: now.UTC().Format(time.RFC3339),
			Duration:    elapsed(event.StartDate, now),
		},
		Attendance: LiveAttendance{
			CheckedIn:      len(s.CheckIns),
			Expected:       expected,
			CheckinRate:    len(s.CheckIns) * 100 / expected,
			RecentCheckins: recent,
		},
		Vendors:     vendors,
		Environment: buildEnvironment(s.Devices),
		Alerts:      alerts,
	}
}

func buildEnvironment(devices []*DeviceState) LiveEnvironment {
	env := LiveEnvironment{
		Temperature: 22,
		Humidity:    50,
		Lighting:    LiveLighting{Level: 80, Mode: "event_mode"},
		Sound:       LiveSound{Level: 75, Status: "optimal"},
	}
	for _, d := range devices {
		switch d.DeviceType {
		case types.DeviceTypeClimate:
			env.Temperature = numberOr(d.State["temperature"], env.Temperature)
			env.Humidity = numberOr(d.State["humidity"], env.Humidity)
		case types.DeviceTypeLighting:
			env.Lighting.Level = numberOr(d.State["brightness"], env.Lighting.Level)
			if mode, ok := d.State["mode"].(string); ok && mode != "" {
				env.Lighting.Mode = mode + "_mode"
			}
		case types.DeviceTypeSound:
			env.Sound.Level = numberOr(d.State["volume"], env.Sound.Level)
		}
	}
	return env
}

func numberOr(v any, fallback float64) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return fallback
	}
}

func elapsed(start, now time.Time) string {
	d := now.Sub(start)
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
