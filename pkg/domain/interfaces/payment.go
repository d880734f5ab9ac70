package interfaces

import (
	"context"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
)

// PaymentGateway creates and confirms payment intents and authenticates its webhooks
type PaymentGateway interface {
	CreateIntent(ctx context.Context, params model.PaymentIntentParams) (*model.PaymentIntent, error)
	// ConfirmIntent charges the intent and updates its status in place
	ConfirmIntent(ctx context.Context, intent *model.PaymentIntent, paymentMethod string) error
	ParseWebhook(payload []byte, signatureHeader string) (*model.WebhookEvent, error)
}
