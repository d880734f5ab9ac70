package config

import (
	"log/slog"

	controller "github.com/eventgrid/eventgrid/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr         string
	CORSOrigins  []string
	SecureCookie bool
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Category:    "Server",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("EVENTGRID_ADDR"),
			Destination: &s.Addr,
		},
		&cli.StringSliceFlag{
			Name:        "cors-origin",
			Usage:       "Browser origin allowed to call the API (repeatable, * for any)",
			Category:    "Server",
			Value:       []string{"*"},
			Sources:     cli.EnvVars("EVENTGRID_CORS_ORIGIN"),
			Destination: &s.CORSOrigins,
		},
		&cli.BoolFlag{
			Name:        "secure-cookie",
			Usage:       "Mark the session cookie as Secure (requires HTTPS)",
			Category:    "Server",
			Sources:     cli.EnvVars("EVENTGRID_SECURE_COOKIE"),
			Destination: &s.SecureCookie,
		},
	}
}

// Options returns the HTTP server options for this configuration
func (s *Server) Options() []controller.Option {
	opts := []controller.Option{controller.WithSecureCookie(s.SecureCookie)}
	if len(s.CORSOrigins) > 0 {
		opts = append(opts, controller.WithCORSOrigins(s.CORSOrigins))
	}
	return opts
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Any("cors_origins", s.CORSOrigins),
		slog.Bool("secure_cookie", s.SecureCookie),
	)
}
