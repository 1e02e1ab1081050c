package config

import (
	"github.com/sethmlarson/pypi-scorecards/pkg/controller/cron"
	"github.com/urfave/cli/v3"
)

// Schedule holds scheduler configuration
type Schedule struct {
	Spec string
}

// Flags returns CLI flags for scheduler configuration
func (c *Schedule) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "schedule",
			Usage:       "Cron expression for scheduled runs",
			Value:       cron.DefaultSpec,
			Destination: &c.Spec,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_SCHEDULE"),
		},
	}
}
