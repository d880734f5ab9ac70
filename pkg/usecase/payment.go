package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Payment implements PaymentUseCase
type Payment struct {
	repo    interfaces.Repository
	gateway interfaces.PaymentGateway
}

// NewPayment creates a new Payment use case
func NewPayment(repo interfaces.Repository, gateway interfaces.PaymentGateway) PaymentUseCase {
	return &Payment{repo: repo, gateway: gateway}
}

// CreatePaymentIntent opens a charge, optionally for one of the caller's bookings
func (u *Payment) CreatePaymentIntent(ctx context.Context, userID types.UserID, req *model.CreatePaymentIntentRequest) (*model.PaymentIntent, error) {
	if req == nil || req.Amount <= 0 || strings.TrimSpace(req.Currency) == "" {
		return nil, model.NewValidationError("Amount and currency are required")
	}

	params := model.PaymentIntentParams{
		Amount:      model.ToMinorUnits(req.Amount),
		Currency:    req.Currency,
		UserID:      userID,
		EventID:     types.EventID(req.EventID),
		Description: req.Description,
	}
	if params.Description == "" {
		params.Description = model.DefaultPaymentDescription
	}

	if req.BookingID != "" {
		booking, _, err := ownedBooking(ctx, u.repo, userID, types.BookingID(req.BookingID))
		if err != nil {
			return nil, err
		}
		params.BookingID = booking.ID
		params.EventID = booking.EventID
	}

	intent, err := u.gateway.CreateIntent(ctx, params)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create payment intent", goerr.V("bookingID", params.BookingID))
	}
	if err := u.repo.PutPaymentIntent(ctx, intent); err != nil {
		return nil, goerr.Wrap(err, "failed to save payment intent", goerr.V("intentID", intent.ID))
	}

	ctxlog.From(ctx).Info("Created payment intent",
		"intentID", intent.ID,
		"userID", userID,
		"bookingID", intent.BookingID,
		"amount", intent.Amount,
		"currency", intent.Currency,
	)
	return intent, nil
}

// ConfirmPayment charges an intent of the caller and confirms its booking
func (u *Payment) ConfirmPayment(ctx context.Context, userID types.UserID, req *model.ConfirmPaymentRequest) (*model.PaymentConfirmation, error) {
	if req == nil || strings.TrimSpace(req.PaymentIntentID) == "" {
		return nil, model.NewValidationError("Payment intent ID is required")
	}
	id := types.PaymentIntentID(req.PaymentIntentID)

	intent, err := u.repo.GetPaymentIntent(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get payment intent", goerr.V("intentID", id))
	}
	if intent.UserID != userID {
		return nil, goerr.Wrap(model.ErrPaymentNotFound, "payment intent owned by another user",
			goerr.V("intentID", id), goerr.V("userID", userID))
	}

	if err := u.gateway.ConfirmIntent(ctx, intent, req.PaymentMethod); err != nil {
		return nil, goerr.Wrap(err, "failed to confirm payment intent", goerr.V("intentID", id))
	}
	if err := u.repo.PutPaymentIntent(ctx, intent); err != nil {
		return nil, goerr.Wrap(err, "failed to save payment intent", goerr.V("intentID", id))
	}

	if intent.Status != types.PaymentStatusSucceeded {
		return nil, goerr.Wrap(
			goerr.New("Payment status: "+string(intent.Status), goerr.T(model.ErrTagPaymentFailed)),
			"payment was not completed", goerr.V("intentID", id))
	}

	if intent.BookingID != "" {
		booking, _, err := ownedBooking(ctx, u.repo, userID, intent.BookingID)
		switch {
		case err == nil:
			booking.Confirm(intent.AmountMajor())
			if err := u.repo.PutBooking(ctx, booking); err != nil {
				return nil, goerr.Wrap(err, "failed to confirm booking", goerr.V("bookingID", booking.ID))
			}
		case model.HasTag(err, model.ErrTagBookingNotFound):
			ctxlog.From(ctx).Warn("Paid booking no longer available",
				"intentID", id,
				"bookingID", intent.BookingID,
			)
		default:
			return nil, err
		}
	}

	ctxlog.From(ctx).Info("Payment confirmed",
		"intentID", id,
		"bookingID", intent.BookingID,
		"amount", intent.Amount,
	)

	return &model.PaymentConfirmation{
		Status:        intent.Status,
		Amount:        intent.AmountMajor(),
		Currency:      strings.ToUpper(intent.Currency),
		PaymentMethod: intent.PaymentMethod,
	}, nil
}

// HandleWebhook applies a signed gateway notification to the linked booking
func (u *Payment) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := u.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	logger := ctxlog.From(ctx)
	bookingID := event.Data.Object.BookingID()
	if bookingID == "" {
		logger.Debug("Webhook without booking", "type", event.Type, "intentID", event.Data.Object.ID)
		return nil
	}

	switch event.Type {
	case model.WebhookPaymentSucceeded, model.WebhookPaymentFailed:
	default:
		logger.Debug("Ignoring webhook", "type", event.Type)
		return nil
	}

	booking, err := u.repo.GetBooking(ctx, bookingID)
	if err != nil {
		if model.HasTag(err, model.ErrTagBookingNotFound) {
			logger.Warn("Webhook for unknown booking", "type", event.Type, "bookingID", bookingID)
			return nil
		}
		return goerr.Wrap(err, "failed to get booking", goerr.V("bookingID", bookingID))
	}

	if event.Type == model.WebhookPaymentSucceeded {
		booking.Confirm(model.FromMinorUnits(event.Data.Object.Amount))
	} else {
		booking.Cancel()
	}
	if err := u.repo.PutBooking(ctx, booking); err != nil {
		return goerr.Wrap(err, "failed to update booking", goerr.V("bookingID", bookingID))
	}

	logger.Info("Applied payment webhook",
		"type", event.Type,
		"bookingID", bookingID,
		"status", booking.Status,
	)
	return nil
}

// PaymentHistory lists the caller's paid bookings, most recently updated first
func (u *Payment) PaymentHistory(ctx context.Context, userID types.UserID) ([]*model.PaymentRecord, error) {
	bookings, events, err := organizerBookings(ctx, u.repo, userID)
	if err != nil {
		return nil, err
	}

	var paid []*model.Booking
	for _, b := range bookings {
		if b.IsPaid() {
			paid = append(paid, b)
		}
	}
	sort.SliceStable(paid, func(i, j int) bool {
		return paid[i].UpdatedAt.After(paid[j].UpdatedAt)
	})

	records := make([]*model.PaymentRecord, 0, len(paid))
	for _, b := range paid {
		record := &model.PaymentRecord{
			BookingID:   b.ID,
			ServiceName: b.ServiceName,
			Amount:      *b.FinalPrice,
			Currency:    b.Currency,
			Status:      b.Status,
			PaymentDate: b.UpdatedAt,
		}
		if event, ok := events[b.EventID]; ok {
			record.EventTitle = event.Title
		}
		if b.VendorID != "" {
			if vendor, err := u.repo.GetVendor(ctx, b.VendorID); err == nil {
				record.VendorName = vendor.BusinessName
			} else if !model.HasTag(err, model.ErrTagVendorNotFound) {
				return nil, goerr.Wrap(err, "failed to get vendor", goerr.V("vendorID", b.VendorID))
			}
		}
		if b.VenueID != "" {
			if venue, err := u.repo.GetVenue(ctx, b.VenueID); err == nil {
				record.VenueName = venue.Name
			} else if !model.HasTag(err, model.ErrTagVenueNotFound) {
				return nil, goerr.Wrap(err, "failed to get venue", goerr.V("venueID", b.VenueID))
			}
		}
		records = append(records, record)
	}
	return records, nil
}
