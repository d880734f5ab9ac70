package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"github.com/eventgrid/eventgrid/pkg/service/payment"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Payment holds payment gateway configuration
type Payment struct {
	WebhookSecret string
}

// Flags returns CLI flags for payment configuration
func (p *Payment) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "payment-webhook-secret",
			Usage:       "Secret used to verify payment webhook signatures",
			Category:    "Payment",
			Sources:     cli.EnvVars("EVENTGRID_PAYMENT_WEBHOOK_SECRET"),
			Destination: &p.WebhookSecret,
		},
	}
}

// Configure creates the payment gateway
func (p *Payment) Configure(ctx context.Context) (*payment.Gateway, error) {
	secret := p.WebhookSecret
	if secret == "" {
		buf := make([]byte, 24)
		if _, err := rand.Read(buf); err != nil {
			return nil, goerr.Wrap(err, "failed to generate webhook secret")
		}
		secret = "whsec_" + hex.EncodeToString(buf)
		ctxlog.From(ctx).Warn("Payment webhook secret not configured, generated a random one. Webhooks signed by other processes will be rejected")
	}

	return payment.New(secret), nil
}

// IsConfigured checks if a webhook secret is set
func (p *Payment) IsConfigured() bool {
	return p.WebhookSecret != ""
}

// LogValue returns structured log value
func (p Payment) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_webhook_secret", p.WebhookSecret != ""),
	)
}
