package config

import (
	_ "embed"
	"log/slog"
	"os"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed holds initial data configuration
type Seed struct {
	File   string
	NoSeed bool
}

// Flags returns CLI flags for seed configuration
func (s *Seed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "seed-file",
			Usage:       "YAML file with initial users, vendors, venues and events (built-in data if empty)",
			Category:    "Seed",
			Sources:     cli.EnvVars("EVENTGRID_SEED_FILE"),
			Destination: &s.File,
		},
		&cli.BoolFlag{
			Name:        "no-seed",
			Usage:       "Do not load initial data into an empty repository",
			Category:    "Seed",
			Sources:     cli.EnvVars("EVENTGRID_NO_SEED"),
			Destination: &s.NoSeed,
		},
	}
}

// Load reads the seed data from the configured file, or the built-in data
func (s *Seed) Load() (*model.SeedData, error) {
	if s.File == "" {
		return ParseSeed(defaultSeed)
	}
	return LoadSeedFromFile(s.File)
}

// IsConfigured reports whether seeding is enabled
func (s *Seed) IsConfigured() bool {
	return !s.NoSeed
}

// LogValue returns structured log value
func (s Seed) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("file", s.File),
		slog.Bool("enabled", !s.NoSeed),
	)
}

// LoadSeedFromFile loads seed data from a YAML file
func LoadSeedFromFile(path string) (*model.SeedData, error) {
	if path == "" {
		return nil, goerr.New("seed file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "seed file not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V("path", path))
	}

	seed, err := ParseSeed(data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid seed file", goerr.V("path", path))
	}
	return seed, nil
}

// ParseSeed decodes and validates YAML seed data
func ParseSeed(data []byte) (*model.SeedData, error) {
	var seed model.SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse seed YAML")
	}

	if err := seed.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid seed data")
	}

	return &seed, nil
}
