package cli

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/sethmlarson/pypi-scorecards/pkg/cli/config"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
	"github.com/sethmlarson/pypi-scorecards/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var (
		gitCfg    config.Git
		srcCfg    config.Sources
		sentryCfg config.Sentry
	)

	flags := append(gitCfg.Flags(), srcCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute one full pipeline run: fetch, render, commit, push",
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

			pipeline, err := newPipeline(&gitCfg, &srcCfg, usecase.TermProgress())
			if err != nil {
				return err
			}

			logger.Debug("Starting manual run",
				"git", gitCfg,
				"sources", srcCfg,
			)

			trigger := model.NewTrigger(model.TriggerManual, time.Time{})
			result, err := pipeline.Execute(ctx, trigger)
			if err != nil {
				if sentryEnabled {
					sentry.CaptureException(err)
				}
				return err
			}

			logger.Info("Run complete",
				"run_id", result.RunID,
				"package_count", result.PackageCount,
				"commit", result.CommitHash,
				"skipped", result.Skipped,
				"duration_ms", result.Duration().Milliseconds(),
			)

			return nil
		},
	}
}
