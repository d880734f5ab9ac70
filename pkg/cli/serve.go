package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventgrid/eventgrid/pkg/cli/config"
	controller "github.com/eventgrid/eventgrid/pkg/controller/http"
	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/service/live"
	"github.com/eventgrid/eventgrid/pkg/service/llm"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		authCfg    config.Auth
		storageCfg config.Storage
		geminiCfg  config.Gemini
		slackCfg   config.Slack
		paymentCfg config.Payment
		liveCfg    config.Live
		seedCfg    config.Seed
	)

	flags := joinFlags(
		serverCfg.Flags(),
		authCfg.Flags(),
		storageCfg.Flags(),
		geminiCfg.Flags(),
		slackCfg.Flags(),
		paymentCfg.Flags(),
		liveCfg.Flags(),
		seedCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting EventGrid server",
				slog.Any("server", serverCfg),
				slog.Any("auth", authCfg),
				slog.Any("storage", storageCfg),
				slog.Any("gemini", geminiCfg),
				slog.Any("slack", slackCfg),
				slog.Any("payment", paymentCfg),
				slog.Any("live", liveCfg),
				slog.Any("seed", seedCfg),
			)

			if err := liveCfg.Validate(); err != nil {
				return err
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

			if seedCfg.IsConfigured() {
				if err := runSeed(ctx, repo, &seedCfg); err != nil {
					return err
				}
			}

			authOpts, err := authCfg.Configure(ctx)
			if err != nil {
				return err
			}

			gateway, err := paymentCfg.Configure(ctx)
			if err != nil {
				return err
			}

			var plannerOpts []usecase.PlannerOption
			if llmClient := geminiCfg.ConfigureOptional(ctx, logger); llmClient != nil {
				plannerOpts = append(plannerOpts, usecase.WithEventDesigner(llm.NewLLMService(llmClient)))
			}

			liveOpts := []usecase.LiveOption{usecase.WithLiveBroker(live.NewBroker())}
			if notifier := slackCfg.ConfigureOptional(logger); notifier != nil {
				liveOpts = append(liveOpts, usecase.WithAlertNotifier(notifier))
			}

			uc := &controller.UseCases{
				Auth:        usecase.NewAuth(ctx, repo, authOpts...),
				Event:       usecase.NewEvent(repo),
				Task:        usecase.NewTask(repo),
				Dashboard:   usecase.NewDashboard(repo),
				Marketplace: usecase.NewMarketplace(repo),
				Venue:       usecase.NewVenue(repo),
				Booking:     usecase.NewBooking(repo),
				Payment:     usecase.NewPayment(repo, gateway),
				Planner:     usecase.NewPlanner(repo, plannerOpts...),
				AR:          usecase.NewAR(repo),
				Live:        usecase.NewLive(repo, liveOpts...),
			}

			serverOpts := joinOptions(serverCfg.Options(), liveCfg.Options(), slackCfg.ServerOptions())
			server, err := controller.NewServer(ctx, serverCfg.Addr, uc, serverOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

// runSeed loads the configured seed data into repo if it is empty
func runSeed(ctx context.Context, repo interfaces.Repository, seedCfg *config.Seed) error {
	data, err := seedCfg.Load()
	if err != nil {
		return err
	}

	summary, err := usecase.NewSeed(repo).Seed(ctx, data)
	if err != nil {
		return goerr.Wrap(err, "failed to seed repository")
	}

	if summary.Skipped {
		ctxlog.From(ctx).Debug("Seed skipped, repository is not empty")
	}
	return nil
}
