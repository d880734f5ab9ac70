package config

import (
	"context"
	"log/slog"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// SQLite holds the embedded database configuration
type SQLite struct {
	Path string
}

// Flags returns CLI flags for SQLite configuration
func (s *SQLite) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "Path of the SQLite database file",
			Category:    "Storage",
			Sources:     cli.EnvVars("EVENTGRID_SQLITE_PATH"),
			Destination: &s.Path,
		},
	}
}

// Configure opens the SQLite repository
func (s *SQLite) Configure(ctx context.Context) (interfaces.Repository, error) {
	repo, err := repository.NewSQLite(ctx, s.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite", goerr.V("path", s.Path))
	}
	return repo, nil
}

// IsConfigured checks if a database path is set
func (s *SQLite) IsConfigured() bool {
	return s.Path != ""
}

// LogValue returns structured log value
func (s SQLite) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", s.Path))
}
