package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	controller "github.com/eventgrid/eventgrid/pkg/controller/http"
	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/repository"
	"github.com/eventgrid/eventgrid/pkg/service/payment"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
)

const (
	testWebhookSecret = "whsec_http_test"
	testPassword      = "password123"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	handler http.Handler
	repo    interfaces.Repository
}

func newTestContext() context.Context {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return ctxlog.With(context.Background(), logger)
}

func newTestServer(t *testing.T, opts ...controller.Option) *testServer {
	t.Helper()
	ctx := newTestContext()
	repo := repository.NewMemory()

	uc := &controller.UseCases{
		Auth:        usecase.NewAuth(ctx, repo, usecase.WithTokenSecret([]byte("http-test-secret"))),
		Event:       usecase.NewEvent(repo),
		Task:        usecase.NewTask(repo),
		Dashboard:   usecase.NewDashboard(repo),
		Marketplace: usecase.NewMarketplace(repo),
		Venue:       usecase.NewVenue(repo),
		Booking:     usecase.NewBooking(repo),
		Payment:     usecase.NewPayment(repo, payment.New(testWebhookSecret)),
		Planner:     usecase.NewPlanner(repo),
		AR:          usecase.NewAR(repo),
		Live:        usecase.NewLive(repo),
	}

	router, err := controller.NewRouter(ctx, uc, opts...)
	gt.NoError(t, err).Required()
	return &testServer{handler: router, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	// Webhook endpoints answer with a bare object instead of the envelope
	var resp apiResponse
	var fields map[string]json.RawMessage
	if rec.Header().Get("Content-Type") == "application/json" && json.Unmarshal(rec.Body.Bytes(), &fields) == nil {
		if _, ok := fields["success"]; ok {
			gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		}
	}
	return rec, resp
}

// register creates an account through the API and returns its access token
func (s *testServer) register(t *testing.T, email, role string) string {
	t.Helper()
	rec, resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":     email,
		"password":  testPassword,
		"firstName": "Test",
		"lastName":  "User",
		"role":      role,
	})
	gt.Equal(t, rec.Code, http.StatusCreated)

	var data struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	gt.NoError(t, json.Unmarshal(resp.Data, &data)).Required()
	gt.NotEqual(t, data.Tokens.AccessToken, "")
	return data.Tokens.AccessToken
}

// createEvent creates an event through the API and returns its id
func (s *testServer) createEvent(t *testing.T, token, title string) string {
	t.Helper()
	start := time.Now().Add(30 * 24 * time.Hour).UTC()
	rec, resp := s.do(t, http.MethodPost, "/api/events", token, map[string]any{
		"basicInfo": map[string]any{"title": title, "type": "conference"},
		"schedule": map[string]any{
			"startDate": start.Format(time.RFC3339),
			"endDate":   start.Add(8 * time.Hour).Format(time.RFC3339),
		},
		"attendees": map[string]any{"expectedCount": 200},
		"budget":    map[string]any{"totalBudget": 50000},
	})
	gt.Equal(t, rec.Code, http.StatusCreated)

	var event struct {
		EventID string `json:"eventId"`
	}
	gt.NoError(t, json.Unmarshal(resp.Data, &event)).Required()
	gt.NotEqual(t, event.EventID, "")
	return event.EventID
}

func decodeData[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(resp.Data, &v)).Required()
	return v
}

func newRawRequest(method, path string, body []byte) *http.Request {
	return httptest.NewRequest(method, path, bytes.NewReader(body))
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}
