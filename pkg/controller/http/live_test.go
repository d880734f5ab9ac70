package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	controller "github.com/eventgrid/eventgrid/pkg/controller/http"
	"github.com/gorilla/websocket"
	"github.com/m-mizutani/gt"
)

type streamFrame struct {
	Type      string `json:"type"`
	EventID   string `json:"eventId"`
	Dashboard struct {
		Attendance struct {
			CheckedIn int `json:"checkedIn"`
			Expected  int `json:"expected"`
		} `json:"attendance"`
		Alerts []struct {
			Title string `json:"title"`
		} `json:"alerts"`
	} `json:"dashboard"`
}

func streamURL(ts *httptest.Server, eventID, token string) string {
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live/events/" + eventID + "/stream"
	if token != "" {
		u += "?access_token=" + token
	}
	return u
}

func TestLiveStream(t *testing.T) {
	// A long interval makes every frame after the first come from a change
	srv := newTestServer(t, controller.WithStreamInterval(time.Hour))
	ts := httptest.NewServer(srv.handler)
	defer ts.Close()

	token := srv.register(t, "live@example.com", "event_manager")
	eventID := srv.createEvent(t, token, "Live Gala")

	conn, resp, err := websocket.DefaultDialer.Dial(streamURL(ts, eventID, token), nil)
	gt.NoError(t, err).Required()
	gt.Equal(t, resp.StatusCode, http.StatusSwitchingProtocols)
	defer conn.Close()

	gt.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var frame streamFrame
	gt.NoError(t, conn.ReadJSON(&frame)).Required()
	gt.Equal(t, frame.Type, "dashboard")
	gt.Equal(t, frame.EventID, eventID)
	gt.Equal(t, frame.Dashboard.Attendance.CheckedIn, 0)
	gt.Equal(t, frame.Dashboard.Attendance.Expected, 200)

	rec, _ := srv.do(t, http.MethodPost, "/api/live/events/"+eventID+"/checkin", token, map[string]any{
		"guestId":   "guest_1",
		"guestName": "Grace Hopper",
	})
	gt.Equal(t, rec.Code, http.StatusOK)

	gt.NoError(t, conn.ReadJSON(&frame)).Required()
	gt.Equal(t, frame.Dashboard.Attendance.CheckedIn, 1)

	rec, _ = srv.do(t, http.MethodPost, "/api/live/events/"+eventID+"/alerts", token, map[string]any{
		"title":   "Stage lights",
		"message": "Spotlight 3 is out",
	})
	gt.Equal(t, rec.Code, http.StatusCreated)

	gt.NoError(t, conn.ReadJSON(&frame)).Required()
	gt.A(t, frame.Dashboard.Alerts).Length(1)
	gt.Equal(t, frame.Dashboard.Alerts[0].Title, "Stage lights")
}

func TestLiveStreamRejects(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.handler)
	defer ts.Close()

	token := srv.register(t, "owner@example.com", "event_manager")
	other := srv.register(t, "intruder@example.com", "event_manager")
	eventID := srv.createEvent(t, token, "Private Dinner")

	t.Run("without a token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(streamURL(ts, eventID, ""), nil)
		if err == nil {
			t.Fatal("expected the handshake to fail")
		}
		gt.Equal(t, resp.StatusCode, http.StatusUnauthorized)
	})

	t.Run("for another organizer's event", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(streamURL(ts, eventID, other), nil)
		if err == nil {
			t.Fatal("expected the handshake to fail")
		}
		gt.Equal(t, resp.StatusCode, http.StatusNotFound)
	})
}

func TestLiveControls(t *testing.T) {
	srv := newTestServer(t)
	token := srv.register(t, "ops@example.com", "event_manager")
	eventID := srv.createEvent(t, token, "Expo")

	rec, resp := srv.do(t, http.MethodPost, "/api/live/events/"+eventID+"/controls", token, map[string]any{
		"deviceType": "lighting",
		"action":     "set_brightness",
		"parameters": map[string]any{"brightness": 40},
	})
	gt.Equal(t, rec.Code, http.StatusOK)
	control := decodeData[struct {
		ControlID string `json:"controlId"`
		EventID   string `json:"eventId"`
		Result    struct {
			Status       string         `json:"status"`
			CurrentState map[string]any `json:"currentState"`
		} `json:"result"`
	}](t, resp)
	gt.True(t, strings.HasPrefix(control.ControlID, "ctrl_"))
	gt.Equal(t, control.EventID, eventID)
	gt.Equal(t, control.Result.Status, "success")
	gt.Equal(t, control.Result.CurrentState["brightness"], any(float64(40)))

	rec, resp = srv.do(t, http.MethodPost, "/api/live/events/"+eventID+"/controls", token, map[string]any{
		"deviceType": "fog_machine",
		"action":     "on",
	})
	gt.Equal(t, rec.Code, http.StatusOK)
	unsupported := decodeData[struct {
		Result struct {
			DeviceID string `json:"deviceId"`
			Status   string `json:"status"`
			Message  string `json:"message"`
		} `json:"result"`
	}](t, resp)
	gt.Equal(t, unsupported.Result.DeviceID, "unknown")
	gt.Equal(t, unsupported.Result.Status, "error")
	gt.Equal(t, unsupported.Result.Message, "Device type not supported")

	rec, resp = srv.do(t, http.MethodPost, "/api/live/events/"+eventID+"/checkin", token, map[string]any{})
	gt.Equal(t, rec.Code, http.StatusBadRequest)
	gt.Equal(t, resp.Error.Message, "Guest ID is required")

	rec, resp = srv.do(t, http.MethodPost, "/api/live/events/"+eventID+"/alerts/alert_missing/resolve", token, nil)
	gt.Equal(t, rec.Code, http.StatusNotFound)
	gt.Equal(t, resp.Error.Code, "ALERT_NOT_FOUND")
	gt.Equal(t, resp.Error.Message, "Alert not found")
}

func TestSlackInteractionRoute(t *testing.T) {
	srv := newTestServer(t, controller.WithSlackInteractions("signing-secret", nil))

	rec, _ := srv.do(t, http.MethodPost, "/hooks/slack/interaction", "", "payload=%7B%7D")
	gt.Equal(t, rec.Code, http.StatusUnauthorized)
}
