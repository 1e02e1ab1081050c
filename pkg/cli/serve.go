package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sethmlarson/pypi-scorecards/pkg/cli/config"
	"github.com/sethmlarson/pypi-scorecards/pkg/controller/cron"
	controller "github.com/sethmlarson/pypi-scorecards/pkg/controller/http"
	"github.com/sethmlarson/pypi-scorecards/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		gitCfg      config.Git
		srcCfg      config.Sources
		serverCfg   config.Server
		scheduleCfg config.Schedule
		sentryCfg   config.Sentry
	)

	flags := append(gitCfg.Flags(), srcCfg.Flags()...)
	flags = append(flags, serverCfg.Flags()...)
	flags = append(flags, scheduleCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the weekly scheduler with a manual dispatch endpoint",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			sentryEnabled, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			if sentryEnabled {
				defer sentry.Flush(2 * time.Second)
			}

			pipeline, err := newPipeline(&gitCfg, &srcCfg, usecase.NopProgress())
			if err != nil {
				return err
			}

			scheduler, err := cron.New(pipeline,
				cron.WithSpec(scheduleCfg.Spec),
				cron.WithErrorHandler(func(err error) {
					logger.Error("Scheduled run failed", slog.Any("error", err))
					if sentryEnabled {
						sentry.CaptureException(err)
					}
				}),
			)
			if err != nil {
				return err
			}

			server, err := controller.NewServer(
				ctx,
				pipeline,
				controller.WithAddr(serverCfg.Addr),
				controller.WithDispatchToken(serverCfg.DispatchToken),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			if err := scheduler.Start(ctx); err != nil {
				return err
			}

			logger.Info("Starting server",
				slog.String("addr", serverCfg.Addr),
				slog.String("schedule", scheduleCfg.Spec),
				slog.Time("next_run", scheduler.NextRun(time.Now())),
			)

			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			scheduler.Stop()

			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
