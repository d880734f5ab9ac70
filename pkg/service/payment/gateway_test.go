package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/service/payment"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

const testSecret = "whsec_test"

func TestGateway_CreateIntent(t *testing.T) {
	ctx := context.Background()
	gw := payment.New(testSecret)

	t.Run("creates intent awaiting confirmation", func(t *testing.T) {
		intent, err := gw.CreateIntent(ctx, model.PaymentIntentParams{
			Amount:      125050,
			Currency:    "USD",
			UserID:      types.UserID("usr_1"),
			BookingID:   types.BookingID("bkg_1"),
			Description: model.DefaultPaymentDescription,
		})
		gt.NoError(t, err).Required()
		gt.S(t, string(intent.ID)).HasPrefix("pi_")
		gt.S(t, intent.ClientSecret).HasPrefix(string(intent.ID) + "_secret_")
		gt.Equal(t, intent.Amount, int64(125050))
		gt.Equal(t, intent.Currency, "usd")
		gt.Equal(t, intent.Status, types.PaymentStatusRequiresConfirmation)
		gt.Equal(t, intent.BookingID, types.BookingID("bkg_1"))
	})

	t.Run("rejects unsupported currency", func(t *testing.T) {
		_, err := gw.CreateIntent(ctx, model.PaymentIntentParams{Amount: 100, Currency: "xyz"})
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagPaymentError))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := gw.CreateIntent(ctx, model.PaymentIntentParams{Amount: 0, Currency: "usd"})
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagPaymentError))
	})
}

func TestGateway_ConfirmIntent(t *testing.T) {
	ctx := context.Background()
	gw := payment.New(testSecret)

	newIntent := func(t *testing.T) *model.PaymentIntent {
		intent, err := gw.CreateIntent(ctx, model.PaymentIntentParams{Amount: 5000, Currency: "eur"})
		gt.NoError(t, err).Required()
		return intent
	}

	t.Run("default method succeeds", func(t *testing.T) {
		intent := newIntent(t)
		gt.NoError(t, gw.ConfirmIntent(ctx, intent, ""))
		gt.Equal(t, intent.Status, types.PaymentStatusSucceeded)
		gt.Equal(t, intent.PaymentMethod, model.DefaultPaymentMethod)
	})

	t.Run("declined card requires another method", func(t *testing.T) {
		intent := newIntent(t)
		gt.NoError(t, gw.ConfirmIntent(ctx, intent, payment.DeclinedPaymentMethod))
		gt.Equal(t, intent.Status, types.PaymentStatusRequiresPaymentMethod)

		gt.NoError(t, gw.ConfirmIntent(ctx, intent, "pm_card_mastercard"))
		gt.Equal(t, intent.Status, types.PaymentStatusSucceeded)
	})

	t.Run("canceled intent cannot be confirmed", func(t *testing.T) {
		intent := newIntent(t)
		intent.Status = types.PaymentStatusCanceled
		err := gw.ConfirmIntent(ctx, intent, "")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagPaymentError))
	})
}

func TestGateway_ParseWebhook(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gw := payment.New(testSecret, payment.WithClock(func() time.Time { return now }))
	payload := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","amount":125050,"currency":"usd","metadata":{"booking_id":"bkg_1"}}}}`)

	t.Run("valid signature", func(t *testing.T) {
		event, err := gw.ParseWebhook(payload, payment.SignPayload(testSecret, payload, now))
		gt.NoError(t, err).Required()
		gt.Equal(t, event.Type, model.WebhookPaymentSucceeded)
		gt.Equal(t, event.Data.Object.Amount, int64(125050))
		gt.Equal(t, event.Data.Object.BookingID(), types.BookingID("bkg_1"))
	})

	t.Run("timestamp within tolerance", func(t *testing.T) {
		_, err := gw.ParseWebhook(payload, payment.SignPayload(testSecret, payload, now.Add(-4*time.Minute)))
		gt.NoError(t, err)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		_, err := gw.ParseWebhook(payload, payment.SignPayload(testSecret, payload, now.Add(-6*time.Minute)))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, payment.ErrTagInvalidSignature))
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := gw.ParseWebhook(payload, payment.SignPayload("other", payload, now))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, payment.ErrTagInvalidSignature))
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := gw.ParseWebhook(payload, "")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, payment.ErrTagInvalidSignature))
	})

	t.Run("tampered body", func(t *testing.T) {
		header := payment.SignPayload(testSecret, payload, now)
		tampered := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","amount":1,"currency":"usd","metadata":{}}}}`)
		_, err := gw.ParseWebhook(tampered, header)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, payment.ErrTagInvalidSignature))
	})

	t.Run("invalid payload", func(t *testing.T) {
		body := []byte("not json")
		_, err := gw.ParseWebhook(body, payment.SignPayload(testSecret, body, now))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, payment.ErrTagInvalidPayload))
	})
}
