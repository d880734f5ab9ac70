package http

import (
	"io"
	"net/http"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/service/payment"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
)

// BookingHandler handles booking and payment requests
type BookingHandler struct {
	bookingUC usecase.BookingUseCase
	paymentUC usecase.PaymentUseCase
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingUC usecase.BookingUseCase, paymentUC usecase.PaymentUseCase) *BookingHandler {
	return &BookingHandler{
		bookingUC: bookingUC,
		paymentUC: paymentUC,
	}
}

type bookingRequest struct {
	EventID        string `json:"eventId"`
	VendorID       string `json:"vendorId"`
	VenueID        string `json:"venueId"`
	ServiceDetails *struct {
		ServiceName    string         `json:"serviceName"`
		Specifications map[string]any `json:"specifications"`
	} `json:"serviceDetails"`
	Schedule struct {
		ServiceDate string `json:"serviceDate"`
		StartTime   string `json:"startTime"`
		EndTime     string `json:"endTime"`
	} `json:"schedule"`
	Message string `json:"message"`
}

func (req *bookingRequest) toModel() *model.CreateBookingRequest {
	out := &model.CreateBookingRequest{
		EventID:     req.EventID,
		VendorID:    req.VendorID,
		VenueID:     req.VenueID,
		ServiceDate: req.Schedule.ServiceDate,
		StartTime:   req.Schedule.StartTime,
		EndTime:     req.Schedule.EndTime,
		Message:     req.Message,
	}
	if d := req.ServiceDetails; d != nil {
		out.ServiceDetails = &model.BookingServiceDetails{
			ServiceName:    d.ServiceName,
			Specifications: d.Specifications,
		}
	}
	return out
}

type bookingStatusRequest struct {
	Status      string   `json:"status"`
	QuotedPrice *float64 `json:"quotedPrice"`
	FinalPrice  *float64 `json:"finalPrice"`
}

type paymentIntentRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	BookingID   string  `json:"bookingId"`
	EventID     string  `json:"eventId"`
	Description string  `json:"description"`
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	PaymentMethod   string `json:"paymentMethod"`
}

func bookingID(r *http.Request) types.BookingID {
	return types.BookingID(chi.URLParam(r, "bookingID"))
}

// HandleList lists bookings of the caller's events
func (h *BookingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := h.bookingUC.ListBookings(ctx, authFrom(ctx).UserID, &model.BookingFilter{
		Status:  r.URL.Query().Get("status"),
		EventID: r.URL.Query().Get("eventId"),
		Page:    queryInt(r, "page"),
		Limit:   queryInt(r, "limit"),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"bookings":   mapSlice(page.Items, toBookingJSON),
		"pagination": toPagination(page),
	})
}

// HandleCreate books a vendor or venue for one of the caller's events
func (h *BookingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	booking, err := h.bookingUC.CreateBooking(ctx, authFrom(ctx).UserID, req.toModel())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusCreated, toBookingJSON(booking))
}

// HandleGet returns a booking of one of the caller's events
func (h *BookingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	booking, err := h.bookingUC.GetBooking(ctx, authFrom(ctx).UserID, bookingID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, toBookingJSON(booking))
}

// HandleUpdateStatus moves a booking through its lifecycle
func (h *BookingHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bookingStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	booking, err := h.bookingUC.UpdateBookingStatus(ctx, authFrom(ctx).UserID, bookingID(r), &model.UpdateBookingStatusRequest{
		Status:      req.Status,
		QuotedPrice: req.QuotedPrice,
		FinalPrice:  req.FinalPrice,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, toBookingJSON(booking))
}

// HandleCreatePaymentIntent opens a payment for the caller
func (h *BookingHandler) HandleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req paymentIntentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	intent, err := h.paymentUC.CreatePaymentIntent(ctx, authFrom(ctx).UserID, &model.CreatePaymentIntentRequest{
		Amount:      req.Amount,
		Currency:    req.Currency,
		BookingID:   req.BookingID,
		EventID:     req.EventID,
		Description: req.Description,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID.String(),
		"amount":          req.Amount,
		"currency":        req.Currency,
	})
}

// HandleConfirmPayment charges a payment intent of the caller
func (h *BookingHandler) HandleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req confirmPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	confirmation, err := h.paymentUC.ConfirmPayment(ctx, authFrom(ctx).UserID, &model.ConfirmPaymentRequest{
		PaymentIntentID: req.PaymentIntentID,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"paymentStatus": string(confirmation.Status),
		"amount":        confirmation.Amount,
		"currency":      confirmation.Currency,
		"paymentMethod": confirmation.PaymentMethod,
	})
}

// HandleWebhook applies a signed payment gateway notification. It is not
// behind authentication and answers in the gateway's plain format.
func (h *BookingHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "Invalid payload"})
		return
	}

	err = h.paymentUC.HandleWebhook(ctx, payload, r.Header.Get(payment.SignatureHeader))
	switch {
	case err == nil:
		writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "success"})
	case model.HasTag(err, payment.ErrTagInvalidPayload):
		ctxlog.From(ctx).Warn("Rejected webhook payload", "error", err)
		writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "Invalid payload"})
	case model.HasTag(err, payment.ErrTagInvalidSignature):
		ctxlog.From(ctx).Warn("Rejected webhook signature", "error", err)
		writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "Invalid signature"})
	default:
		writeError(ctx, w, err)
	}
}

// HandleHistory lists the caller's paid bookings
func (h *BookingHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.paymentUC.PaymentHistory(ctx, authFrom(ctx).UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"payments": mapSlice(records, toPaymentRecordJSON),
		"total":    len(records),
	})
}
