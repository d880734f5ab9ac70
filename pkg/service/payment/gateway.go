package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// SignatureHeader carries the webhook signature
const SignatureHeader = "EventGrid-Signature"

// SignatureTolerance is how far a webhook timestamp may drift from now
const SignatureTolerance = 5 * time.Minute

// DeclinedPaymentMethod always fails confirmation
const DeclinedPaymentMethod = "pm_card_declined"

var (
	ErrTagInvalidPayload   = goerr.NewTag("invalid_payload")
	ErrTagInvalidSignature = goerr.NewTag("invalid_signature")
)

var supportedCurrencies = map[string]struct{}{
	"usd": {}, "eur": {}, "gbp": {}, "jpy": {}, "cad": {}, "aud": {}, "chf": {}, "sgd": {},
}

// Gateway is an in-process payment processor with card semantics
type Gateway struct {
	webhookSecret []byte
	now           func() time.Time
}

var _ interfaces.PaymentGateway = (*Gateway)(nil)

// Option configures a Gateway
type Option func(*Gateway)

// WithClock replaces the clock used for signature verification
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// New creates a gateway that verifies webhooks signed with webhookSecret
func New(webhookSecret string, opts ...Option) *Gateway {
	g := &Gateway{
		webhookSecret: []byte(webhookSecret),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CreateIntent opens a payment intent awaiting confirmation
func (g *Gateway) CreateIntent(ctx context.Context, params model.PaymentIntentParams) (*model.PaymentIntent, error) {
	currency := strings.ToLower(strings.TrimSpace(params.Currency))
	if _, ok := supportedCurrencies[currency]; !ok {
		return nil, goerr.New("Invalid currency: "+currency, goerr.T(model.ErrTagPaymentError),
			goerr.V("currency", params.Currency))
	}
	if params.Amount <= 0 {
		return nil, goerr.New("Amount must be greater than zero", goerr.T(model.ErrTagPaymentError),
			goerr.V("amount", params.Amount))
	}

	id := types.NewPaymentIntentID()
	now := g.now()
	intent := &model.PaymentIntent{
		ID:           id,
		ClientSecret: id.String() + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Amount:       params.Amount,
		Currency:     currency,
		Status:       types.PaymentStatusRequiresConfirmation,
		UserID:       params.UserID,
		BookingID:    params.BookingID,
		EventID:      params.EventID,
		Description:  params.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctxlog.From(ctx).Debug("Payment intent created",
		"intentID", intent.ID,
		"amount", intent.Amount,
		"currency", intent.Currency,
	)
	return intent, nil
}

// ConfirmIntent charges the payment method. A declined card leaves the
// intent waiting for another payment method.
func (g *Gateway) ConfirmIntent(ctx context.Context, intent *model.PaymentIntent, paymentMethod string) error {
	if intent == nil {
		return goerr.New("payment intent is nil")
	}
	if paymentMethod == "" {
		paymentMethod = model.DefaultPaymentMethod
	}

	switch intent.Status {
	case types.PaymentStatusSucceeded:
		return nil
	case types.PaymentStatusCanceled:
		return goerr.New("This PaymentIntent has been canceled", goerr.T(model.ErrTagPaymentError),
			goerr.V("intentID", intent.ID))
	}

	intent.PaymentMethod = paymentMethod
	intent.UpdatedAt = g.now()
	if paymentMethod == DeclinedPaymentMethod {
		intent.Status = types.PaymentStatusRequiresPaymentMethod
	} else {
		intent.Status = types.PaymentStatusSucceeded
	}

	ctxlog.From(ctx).Debug("Payment intent confirmed",
		"intentID", intent.ID,
		"status", intent.Status,
	)
	return nil
}

// ParseWebhook verifies the signature header and decodes the notification
func (g *Gateway) ParseWebhook(payload []byte, signatureHeader string) (*model.WebhookEvent, error) {
	var event model.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, goerr.Wrap(err, "failed to decode webhook payload", goerr.T(ErrTagInvalidPayload))
	}
	if event.Type == "" {
		return nil, goerr.New("webhook payload has no type", goerr.T(ErrTagInvalidPayload))
	}

	if err := g.verify(payload, signatureHeader); err != nil {
		return nil, err
	}
	return &event, nil
}

func (g *Gateway) verify(payload []byte, header string) error {
	var ts string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			ts = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if ts == "" || len(signatures) == 0 {
		return goerr.New("malformed signature header", goerr.T(ErrTagInvalidSignature))
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid signature timestamp", goerr.T(ErrTagInvalidSignature), goerr.V("t", ts))
	}
	drift := g.now().Sub(time.Unix(unix, 0))
	if drift > SignatureTolerance || drift < -SignatureTolerance {
		return goerr.New("signature timestamp outside tolerance", goerr.T(ErrTagInvalidSignature),
			goerr.V("t", ts), goerr.V("drift", drift))
	}

	expected := computeSignature(g.webhookSecret, ts, payload)
	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return goerr.New("no matching signature", goerr.T(ErrTagInvalidSignature))
}

func computeSignature(secret []byte, ts string, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignPayload builds the signature header value for payload at ts
func SignPayload(secret string, payload []byte, ts time.Time) string {
	t := strconv.FormatInt(ts.Unix(), 10)
	return "t=" + t + ",v1=" + hex.EncodeToString(computeSignature([]byte(secret), t, payload))
}
