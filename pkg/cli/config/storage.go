package config

import (
	"context"
	"log/slog"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/repository"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

// Storage selects the repository backend: Firestore when a project is set,
// then SQLite when a path is set, otherwise memory.
type Storage struct {
	Firestore Firestore
	SQLite    SQLite
}

// Flags returns CLI flags for all storage backends
func (s *Storage) Flags() []cli.Flag {
	return append(s.Firestore.Flags(), s.SQLite.Flags()...)
}

// Configure opens the selected repository
func (s *Storage) Configure(ctx context.Context) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	switch {
	case s.Firestore.IsConfigured():
		logger.Info("Using Firestore repository", "firestore", s.Firestore)
		return s.Firestore.Configure(ctx)
	case s.SQLite.IsConfigured():
		logger.Info("Using SQLite repository", "sqlite", s.SQLite)
		return s.SQLite.Configure(ctx)
	default:
		logger.Warn("Using memory database. The data will be removed when shutting down")
		return repository.NewMemory(), nil
	}
}

// Backend names the repository Configure would open
func (s *Storage) Backend() string {
	switch {
	case s.Firestore.IsConfigured():
		return "firestore"
	case s.SQLite.IsConfigured():
		return "sqlite"
	default:
		return "memory"
	}
}

// LogValue returns structured log value
func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", s.Backend()),
		slog.Any("firestore", s.Firestore),
		slog.Any("sqlite", s.SQLite),
	)
}
