package config

import (
	"log/slog"

	controller "github.com/eventgrid/eventgrid/pkg/controller/http"
	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	slacksvc "github.com/eventgrid/eventgrid/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds configuration for live alert notifications and interactions
type Slack struct {
	OAuthToken    string
	AlertChannel  string
	SigningSecret string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for API access",
			Category:    "Slack",
			Sources:     cli.EnvVars("EVENTGRID_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-alert-channel",
			Usage:       "Slack channel ID that receives live event alerts",
			Category:    "Slack",
			Sources:     cli.EnvVars("EVENTGRID_SLACK_ALERT_CHANNEL"),
			Destination: &s.AlertChannel,
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack signing secret for interaction request verification",
			Category:    "Slack",
			Sources:     cli.EnvVars("EVENTGRID_SLACK_SIGNING_SECRET"),
			Destination: &s.SigningSecret,
		},
	}
}

// Client creates a Slack API client, or nil without a token
func (s *Slack) Client() interfaces.SlackClient {
	if s.OAuthToken == "" {
		return nil
	}
	return slacksvc.New(s.OAuthToken)
}

// Configure creates an alert notifier, or nil if Slack is not configured
func (s *Slack) Configure() interfaces.AlertNotifier {
	if !s.IsConfigured() {
		return nil
	}
	return slacksvc.NewNotifier(s.Client(), s.AlertChannel)
}

// ConfigureOptional creates an alert notifier if configured, returns nil if not
func (s *Slack) ConfigureOptional(logger *slog.Logger) interfaces.AlertNotifier {
	if !s.IsConfigured() {
		logger.Info("Slack not configured, live alerts stay in the dashboard only")
		return nil
	}

	logger.Info("Configuring Slack alert notifier", slog.String("channel", s.AlertChannel))
	return s.Configure()
}

// ServerOptions enables the interaction webhook when a signing secret is set
func (s *Slack) ServerOptions() []controller.Option {
	if s.SigningSecret == "" {
		return nil
	}
	return []controller.Option{controller.WithSlackInteractions(s.SigningSecret, s.Client())}
}

// IsConfigured checks if both token and channel are set
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.AlertChannel != ""
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.Bool("has_signing_secret", s.SigningSecret != ""),
		slog.String("alert_channel", s.AlertChannel),
	)
}
