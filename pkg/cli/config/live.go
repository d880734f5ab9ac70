package config

import (
	"log/slog"
	"time"

	controller "github.com/eventgrid/eventgrid/pkg/controller/http"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Live holds live dashboard configuration
type Live struct {
	StreamInterval time.Duration
}

// Flags returns CLI flags for live dashboard configuration
func (l *Live) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "live-stream-interval",
			Usage:       "Interval between live dashboard snapshots pushed over WebSocket",
			Category:    "Live",
			Value:       controller.DefaultStreamInterval,
			Sources:     cli.EnvVars("EVENTGRID_LIVE_STREAM_INTERVAL"),
			Destination: &l.StreamInterval,
		},
	}
}

// Validate checks the stream interval
func (l *Live) Validate() error {
	if l.StreamInterval <= 0 {
		return goerr.New("live stream interval must be positive", goerr.V("interval", l.StreamInterval))
	}
	return nil
}

// Options returns server options for the live stream
func (l *Live) Options() []controller.Option {
	return []controller.Option{controller.WithStreamInterval(l.StreamInterval)}
}

// LogValue returns structured log value
func (l Live) LogValue() slog.Value {
	return slog.GroupValue(slog.Duration("stream_interval", l.StreamInterval))
}
