package config

import (
	"context"
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Auth holds access token configuration
type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Flags returns CLI flags for Auth configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "Secret used to sign access tokens",
			Category:    "Auth",
			Sources:     cli.EnvVars("EVENTGRID_JWT_SECRET"),
			Destination: &a.JWTSecret,
		},
		&cli.DurationFlag{
			Name:        "token-ttl",
			Usage:       "Lifetime of access tokens",
			Category:    "Auth",
			Value:       time.Hour,
			Sources:     cli.EnvVars("EVENTGRID_TOKEN_TTL"),
			Destination: &a.TokenTTL,
		},
	}
}

// Configure returns the auth use case options. Without a configured secret a
// random one is generated, so tokens do not survive a restart.
func (a *Auth) Configure(ctx context.Context) ([]usecase.AuthOption, error) {
	secret := []byte(a.JWTSecret)
	if !a.IsConfigured() {
		ctxlog.From(ctx).Warn("JWT secret not configured, using a random secret. Sessions end when the server restarts")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, goerr.Wrap(err, "failed to generate JWT secret")
		}
	}

	opts := []usecase.AuthOption{usecase.WithTokenSecret(secret)}
	if a.TokenTTL > 0 {
		opts = append(opts, usecase.WithTokenTTL(a.TokenTTL))
	}
	return opts, nil
}

// IsConfigured checks if a signing secret is set
func (a *Auth) IsConfigured() bool {
	return a.JWTSecret != ""
}

// LogValue returns structured log value
func (a Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_jwt_secret", a.JWTSecret != ""),
		slog.Duration("token_ttl", a.TokenTTL),
	)
}
