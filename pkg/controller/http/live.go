package http

import (
	"net/http"
	"slices"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/m-mizutani/ctxlog"
)

const (
	// DefaultStreamInterval is how often the live stream pushes a snapshot without changes
	DefaultStreamInterval = 5 * time.Second

	streamWriteWait = 10 * time.Second
)

// LiveHandler handles operations during a running event
type LiveHandler struct {
	liveUC   usecase.LiveUseCase
	interval time.Duration
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a new live handler. The stream pushes a snapshot
// every interval; origins lists the browser origins allowed to open it.
func NewLiveHandler(liveUC usecase.LiveUseCase, interval time.Duration, origins []string) *LiveHandler {
	if interval <= 0 {
		interval = DefaultStreamInterval
	}
	return &LiveHandler{
		liveUC:   liveUC,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
			},
		},
	}
}

type checkInRequest struct {
	GuestID         string   `json:"guestId"`
	GuestName       string   `json:"guestName"`
	SeatAssignment  string   `json:"seatAssignment"`
	SpecialRequests []string `json:"specialRequests"`
}

type vendorStatusRequest struct {
	Status        string  `json:"status"`
	SetupProgress *int    `json:"setupProgress"`
	Location      *string `json:"location"`
	Contact       *string `json:"contact"`
	Notes         *string `json:"notes"`
}

type alertRequest struct {
	Type        string   `json:"type"`
	Severity    string   `json:"severity"`
	Title       string   `json:"title"`
	Message     string   `json:"message"`
	Category    string   `json:"category"`
	Recipients  []string `json:"recipients"`
	Actions     []any    `json:"actions"`
	AutoResolve bool     `json:"autoResolve"`
}

type controlRequest struct {
	DeviceType string         `json:"deviceType"`
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
}

type controlResponse struct {
	ControlID string                     `json:"controlId"`
	EventID   string                     `json:"eventId"`
	Timestamp time.Time                  `json:"timestamp"`
	Result    *model.DeviceControlResult `json:"result"`
}

// streamMessage is one frame pushed over the live stream
type streamMessage struct {
	Type        string               `json:"type"`
	EventID     string               `json:"eventId"`
	Dashboard   *model.LiveDashboard `json:"dashboard"`
	LastUpdated time.Time            `json:"lastUpdated"`
}

// HandleDashboard returns the live overview of an event
func (h *LiveHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dashboard, err := h.liveUC.Dashboard(ctx, authFrom(ctx).UserID, eventID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"eventId":     eventID(r).String(),
		"dashboard":   dashboard,
		"lastUpdated": generatedAt(),
	})
}

// HandleCheckIn records a guest arrival
func (h *LiveHandler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkInRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.liveUC.CheckIn(ctx, authFrom(ctx).UserID, eventID(r), &model.CheckInRequest{
		GuestID:         req.GuestID,
		GuestName:       req.GuestName,
		SeatAssignment:  req.SeatAssignment,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, result)
}

// HandleVendorStatuses lists the on-site status of booked vendors
func (h *LiveHandler) HandleVendorStatuses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	views, err := h.liveUC.VendorStatuses(ctx, authFrom(ctx).UserID, eventID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"eventId":      eventID(r).String(),
		"vendorStatus": views,
		"lastUpdated":  generatedAt(),
	})
}

// HandleUpdateVendorStatus updates the checkpoint of a booked vendor
func (h *LiveHandler) HandleUpdateVendorStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req vendorStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	vendorID := types.VendorID(chi.URLParam(r, "vendorID"))
	view, err := h.liveUC.UpdateVendorStatus(ctx, authFrom(ctx).UserID, eventID(r), vendorID, model.VendorStatusRequest{
		Status:        req.Status,
		SetupProgress: req.SetupProgress,
		Location:      req.Location,
		Contact:       req.Contact,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, view)
}

// HandleRaiseAlert creates an active alert
func (h *LiveHandler) HandleRaiseAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alertRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	alert, err := h.liveUC.RaiseAlert(ctx, authFrom(ctx).UserID, eventID(r), model.AlertRequest{
		Type:        req.Type,
		Severity:    req.Severity,
		Title:       req.Title,
		Message:     req.Message,
		Category:    req.Category,
		Recipients:  req.Recipients,
		Actions:     req.Actions,
		AutoResolve: req.AutoResolve,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusCreated, toAlertJSON(alert))
}

// HandleListAlerts lists the alerts of an event
func (h *LiveHandler) HandleListAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	alerts, err := h.liveUC.ListAlerts(ctx, authFrom(ctx).UserID, eventID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{"alerts": mapSlice(alerts, toAlertJSON)})
}

// HandleResolveAlert closes an alert
func (h *LiveHandler) HandleResolveAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	alertID := types.AlertID(chi.URLParam(r, "alertID"))
	alert, err := h.liveUC.ResolveAlert(ctx, authFrom(ctx).UserID, eventID(r), alertID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, toAlertJSON(alert))
}

// HandleControl applies an action to a venue system
func (h *LiveHandler) HandleControl(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req controlRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.liveUC.ControlDevice(ctx, authFrom(ctx).UserID, eventID(r), model.DeviceControlRequest{
		DeviceType: req.DeviceType,
		Action:     req.Action,
		Parameters: req.Parameters,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, controlResponse{
		ControlID: "ctrl_" + uuid.NewString(),
		EventID:   eventID(r).String(),
		Timestamp: generatedAt(),
		Result:    result,
	})
}

// HandleStream pushes live dashboard snapshots over a WebSocket: once on
// connect, after every change to the event and at the stream interval.
func (h *LiveHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)
	organizerID := authFrom(ctx).UserID
	id := eventID(r)

	updates, release, err := h.liveUC.Subscribe(ctx, organizerID, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	defer release()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		logger.Warn("Failed to upgrade live stream", "error", err, "eventID", id)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debug("Failed to close live stream", "error", err)
		}
	}()

	// The client sends nothing; reading detects when it goes away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() error {
		dashboard, err := h.liveUC.Dashboard(ctx, organizerID, id)
		if err != nil {
			return err
		}
		if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
			return err
		}
		return conn.WriteJSON(streamMessage{
			Type:        "dashboard",
			EventID:     id.String(),
			Dashboard:   dashboard,
			LastUpdated: generatedAt(),
		})
	}

	logger.Info("Live stream opened", "eventID", id, "userID", organizerID)
	defer logger.Info("Live stream closed", "eventID", id, "userID", organizerID)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	if err := send(); err != nil {
		logger.Warn("Failed to send live snapshot", "error", err, "eventID", id)
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-updates:
		case <-ticker.C:
		}
		if err := send(); err != nil {
			logger.Warn("Failed to send live snapshot", "error", err, "eventID", id)
			return
		}
	}
}
