package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/sethmlarson/pypi-scorecards/pkg/cli/config"
	"github.com/sethmlarson/pypi-scorecards/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdFetch() *cli.Command {
	var (
		srcCfg config.Sources
		output string
	)

	flags := append(srcCfg.Flags(),
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Directory that receives README.md and data/",
			Value:       ".",
			Destination: &output,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_OUTPUT"),
		},
	)

	return &cli.Command{
		Name:    "fetch",
		Aliases: []string{"f"},
		Usage:   "Fetch scorecard data and write artifacts without touching git",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			fetchUC := newFetch(&srcCfg, usecase.TermProgress())

			renderer, err := usecase.NewRenderer(output)
			if err != nil {
				return err
			}

			snapshot, err := fetchUC.FetchSnapshot(ctx, time.Now())
			if err != nil {
				return err
			}

			if err := renderer.WriteArtifacts(ctx, snapshot); err != nil {
				return err
			}

			logger.Info("Fetch complete",
				"package_count", len(snapshot.Packages),
				"check_count", len(snapshot.CheckNames),
				"output", output,
			)

			return nil
		},
	}
}
