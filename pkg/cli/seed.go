package cli

import (
	"context"
	"log/slog"

	"github.com/eventgrid/eventgrid/pkg/cli/config"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var (
		storageCfg config.Storage
		seedCfg    config.Seed
	)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load initial data into an empty repository",
		Flags: joinFlags(storageCfg.Flags(), seedCfg.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Info("Seeding repository",
				slog.Any("storage", storageCfg),
				slog.Any("seed", seedCfg),
			)

			if storageCfg.Backend() == "memory" {
				logger.Warn("No persistent storage configured, seeded data is discarded on exit")
			}

			repo, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Warn("Failed to close repository", slog.Any("error", err))
				}
			}()

			return runSeed(ctx, repo, &seedCfg)
		},
	}
}
