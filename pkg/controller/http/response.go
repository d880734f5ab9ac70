package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/utils/apperr"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const maxBodySize = 1 << 20

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

// errorStatus maps client error codes to HTTP status codes
var errorStatus = map[string]int{
	"VALIDATION_ERROR":    http.StatusBadRequest,
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_DISABLED":    http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,
	"USER_NOT_FOUND":      http.StatusNotFound,
	"EVENT_NOT_FOUND":     http.StatusNotFound,
	"VENDOR_NOT_FOUND":    http.StatusNotFound,
	"VENUE_NOT_FOUND":     http.StatusNotFound,
	"BOOKING_NOT_FOUND":   http.StatusNotFound,
	"TASK_NOT_FOUND":      http.StatusNotFound,
	"ALERT_NOT_FOUND":     http.StatusNotFound,
	"USER_EXISTS":         http.StatusConflict,
	"PAYMENT_ERROR":       http.StatusBadRequest,
	"PAYMENT_FAILED":      http.StatusBadRequest,
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}

func writeData(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, envelope{Success: true, Data: data})
}

func writeMessage(ctx context.Context, w http.ResponseWriter, message string) {
	writeJSON(ctx, w, http.StatusOK, envelope{Success: true, Message: message})
}

// writeError writes the failure envelope. Tagged errors report their code and
// client message; anything else is logged and reported as INTERNAL_ERROR.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	code := model.ErrorCode(err)
	status, ok := errorStatus[code]
	if !ok {
		apperr.Handle(ctx, err)
		writeJSON(ctx, w, http.StatusInternalServerError, envelope{
			Error: &apiError{Code: "INTERNAL_ERROR", Message: "An internal error occurred"},
		})
		return
	}

	if status >= http.StatusInternalServerError {
		apperr.Handle(ctx, err)
	} else {
		ctxlog.From(ctx).Debug("Request failed", "code", code, "error", err)
	}
	writeJSON(ctx, w, status, envelope{
		Error: &apiError{Code: code, Message: model.RootMessage(err)},
	})
}

// decodeBody reads a JSON request body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return goerr.Wrap(err, "failed to read request body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return goerr.Wrap(model.NewValidationError("Invalid JSON body"), "failed to decode request body",
			goerr.V("cause", err.Error()))
	}
	return nil
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

func queryFloat(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func authFrom(ctx context.Context) *model.AuthContext {
	auth, ok := model.GetAuthContext(ctx)
	if !ok {
		return &model.AuthContext{}
	}
	return auth
}
