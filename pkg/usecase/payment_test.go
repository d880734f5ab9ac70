package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/repository"
	"github.com/eventgrid/eventgrid/pkg/service/payment"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/m-mizutani/gt"
)

const testWebhookSecret = "whsec_test"

func setupPayment(t *testing.T, ctx context.Context) (usecase.PaymentUseCase, usecase.BookingUseCase, types.UserID, *model.Booking) {
	t.Helper()
	repo := repository.NewMemory()
	events := usecase.NewEvent(repo)
	bookings := usecase.NewBooking(repo)
	payments := usecase.NewPayment(repo, payment.New(testWebhookSecret))
	organizer := types.UserID("usr_payer")

	event := createTestEvent(t, ctx, events, organizer, "Annual Gala", time.Now().Add(60*24*time.Hour))
	vendor := putVendor(t, ctx, repo, "Bloom Florals", "florist", 4.8, 15)
	booking, err := bookings.CreateBooking(ctx, organizer, &model.CreateBookingRequest{
		EventID:        event.ID.String(),
		VendorID:       vendor.ID.String(),
		ServiceDetails: &model.BookingServiceDetails{ServiceName: "Table arrangements"},
	})
	gt.NoError(t, err).Required()
	return payments, bookings, organizer, booking
}

func TestPaymentUseCase_CreatePaymentIntent(t *testing.T) {
	ctx := newTestContext()
	payments, _, organizer, booking := setupPayment(t, ctx)

	t.Run("Intent linked to booking", func(t *testing.T) {
		intent, err := payments.CreatePaymentIntent(ctx, organizer, &model.CreatePaymentIntentRequest{
			Amount:    1250.5,
			Currency:  "USD",
			BookingID: booking.ID.String(),
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, intent.Amount, int64(125050))
		gt.Equal(t, intent.Currency, "usd")
		gt.Equal(t, intent.BookingID, booking.ID)
		gt.Equal(t, intent.EventID, booking.EventID)
		gt.Equal(t, intent.Description, model.DefaultPaymentDescription)
		gt.Equal(t, intent.Status, types.PaymentStatusRequiresConfirmation)
		gt.S(t, intent.ClientSecret).HasPrefix(intent.ID.String() + "_secret_")
	})

	t.Run("Amount and currency are required", func(t *testing.T) {
		_, err := payments.CreatePaymentIntent(ctx, organizer, &model.CreatePaymentIntentRequest{Currency: "USD"})
		assertTag(t, err, model.ErrTagValidation, "Amount and currency are required")

		_, err = payments.CreatePaymentIntent(ctx, organizer, &model.CreatePaymentIntentRequest{Amount: 10})
		assertTag(t, err, model.ErrTagValidation, "Amount and currency are required")
	})

	t.Run("Unsupported currency", func(t *testing.T) {
		_, err := payments.CreatePaymentIntent(ctx, organizer, &model.CreatePaymentIntentRequest{Amount: 10, Currency: "XYZ"})
		assertTag(t, err, model.ErrTagPaymentError, "Invalid currency: xyz")
	})

	t.Run("Foreign booking", func(t *testing.T) {
		_, err := payments.CreatePaymentIntent(ctx, types.UserID("usr_other"), &model.CreatePaymentIntentRequest{
			Amount: 10, Currency: "USD", BookingID: booking.ID.String(),
		})
		assertTag(t, err, model.ErrTagBookingNotFound, "Booking not found")
	})
}

func TestPaymentUseCase_ConfirmPayment(t *testing.T) {
	ctx := newTestContext()
	payments, bookings, organizer, booking := setupPayment(t, ctx)

	intent, err := payments.CreatePaymentIntent(ctx, organizer, &model.CreatePaymentIntentRequest{
		Amount:    800,
		Currency:  "usd",
		BookingID: booking.ID.String(),
	})
	gt.NoError(t, err).Required()

	t.Run("Missing intent ID", func(t *testing.T) {
		_, err := payments.ConfirmPayment(ctx, organizer, &model.ConfirmPaymentRequest{})
		assertTag(t, err, model.ErrTagValidation, "Payment intent ID is required")
	})

	t.Run("Foreign intent", func(t *testing.T) {
		_, err := payments.ConfirmPayment(ctx, types.UserID("usr_other"), &model.ConfirmPaymentRequest{
			PaymentIntentID: intent.ID.String(),
		})
		assertTag(t, err, model.ErrTagPaymentError, "Payment intent not found")
	})

	t.Run("Declined card", func(t *testing.T) {
		_, err := payments.ConfirmPayment(ctx, organizer, &model.ConfirmPaymentRequest{
			PaymentIntentID: intent.ID.String(),
			PaymentMethod:   payment.DeclinedPaymentMethod,
		})
		assertTag(t, err, model.ErrTagPaymentFailed, "Payment status: requires_payment_method")

		unchanged, err := bookings.GetBooking(ctx, organizer, booking.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, unchanged.Status, types.BookingStatusInquiry)
	})

	t.Run("Successful payment confirms booking", func(t *testing.T) {
		confirmation, err := payments.ConfirmPayment(ctx, organizer, &model.ConfirmPaymentRequest{
			PaymentIntentID: intent.ID.String(),
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, confirmation.Status, types.PaymentStatusSucceeded)
		gt.Equal(t, confirmation.Amount, 800.0)
		gt.Equal(t, confirmation.Currency, "USD")
		gt.Equal(t, confirmation.PaymentMethod, model.DefaultPaymentMethod)

		paid, err := bookings.GetBooking(ctx, organizer, booking.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, paid.Status, types.BookingStatusConfirmed)
		gt.Equal(t, *paid.FinalPrice, 800.0)
	})

	t.Run("History lists the paid booking", func(t *testing.T) {
		records, err := payments.PaymentHistory(ctx, organizer)
		gt.NoError(t, err).Required()
		gt.A(t, records).Length(1)
		gt.Equal(t, records[0].BookingID, booking.ID)
		gt.Equal(t, records[0].EventTitle, "Annual Gala")
		gt.Equal(t, records[0].VendorName, "Bloom Florals")
		gt.Equal(t, records[0].ServiceName, "Table arrangements")
		gt.Equal(t, records[0].Amount, 800.0)
	})
}

func webhookPayload(t *testing.T, eventType string, bookingID types.BookingID, amount int64) []byte {
	t.Helper()
	var event model.WebhookEvent
	event.Type = eventType
	event.Data.Object = model.WebhookPaymentIntent{
		ID:       "pi_webhook",
		Amount:   amount,
		Currency: "usd",
		Metadata: map[string]string{"booking_id": bookingID.String()},
	}
	payload, err := json.Marshal(event)
	gt.NoError(t, err).Required()
	return payload
}

func TestPaymentUseCase_HandleWebhook(t *testing.T) {
	ctx := newTestContext()

	t.Run("Succeeded webhook confirms booking", func(t *testing.T) {
		payments, bookings, organizer, booking := setupPayment(t, ctx)
		payload := webhookPayload(t, model.WebhookPaymentSucceeded, booking.ID, 99900)

		err := payments.HandleWebhook(ctx, payload, payment.SignPayload(testWebhookSecret, payload, time.Now()))
		gt.NoError(t, err).Required()

		updated, err := bookings.GetBooking(ctx, organizer, booking.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, updated.Status, types.BookingStatusConfirmed)
		gt.Equal(t, *updated.FinalPrice, 999.0)
	})

	t.Run("Failed webhook cancels booking", func(t *testing.T) {
		payments, bookings, organizer, booking := setupPayment(t, ctx)
		payload := webhookPayload(t, model.WebhookPaymentFailed, booking.ID, 99900)

		err := payments.HandleWebhook(ctx, payload, payment.SignPayload(testWebhookSecret, payload, time.Now()))
		gt.NoError(t, err).Required()

		updated, err := bookings.GetBooking(ctx, organizer, booking.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, updated.Status, types.BookingStatusCancelled)
	})

	t.Run("Unknown booking and event type are ignored", func(t *testing.T) {
		payments, _, _, booking := setupPayment(t, ctx)

		payload := webhookPayload(t, model.WebhookPaymentSucceeded, types.BookingID("bkg_missing"), 100)
		gt.NoError(t, payments.HandleWebhook(ctx, payload, payment.SignPayload(testWebhookSecret, payload, time.Now())))

		payload = webhookPayload(t, "payment_intent.created", booking.ID, 100)
		gt.NoError(t, payments.HandleWebhook(ctx, payload, payment.SignPayload(testWebhookSecret, payload, time.Now())))
	})

	t.Run("Bad signature is rejected", func(t *testing.T) {
		payments, _, _, booking := setupPayment(t, ctx)
		payload := webhookPayload(t, model.WebhookPaymentSucceeded, booking.ID, 100)

		err := payments.HandleWebhook(ctx, payload, payment.SignPayload("wrong", payload, time.Now()))
		if err == nil {
			t.Fatal("expected an error")
		}
		gt.True(t, model.HasTag(err, payment.ErrTagInvalidSignature))
	})
}
