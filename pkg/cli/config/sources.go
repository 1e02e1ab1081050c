package config

import (
	"time"

	"github.com/sethmlarson/pypi-scorecards/pkg/infra/depsdev"
	"github.com/sethmlarson/pypi-scorecards/pkg/infra/pypi"
	"github.com/urfave/cli/v3"
)

// Sources holds upstream data source configuration
type Sources struct {
	TopPackagesURL string
	DepsDevBaseURL string
	Concurrency    int
	RatePerSecond  float64
	HTTPTimeout    time.Duration
}

// Flags returns CLI flags for data source configuration
func (c *Sources) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "top-packages-url",
			Usage:       "URL of the top-PyPI-packages dataset",
			Value:       pypi.DefaultTopPackagesURL,
			Destination: &c.TopPackagesURL,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_TOP_PACKAGES_URL"),
		},
		&cli.StringFlag{
			Name:        "depsdev-url",
			Usage:       "Base URL of the deps.dev API",
			Value:       depsdev.DefaultBaseURL,
			Destination: &c.DepsDevBaseURL,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_DEPSDEV_URL"),
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of concurrent scorecard fetch workers",
			Value:       16,
			Destination: &c.Concurrency,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_CONCURRENCY"),
		},
		&cli.FloatFlag{
			Name:        "rate-limit",
			Usage:       "Maximum deps.dev requests per second",
			Value:       20,
			Destination: &c.RatePerSecond,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_RATE_LIMIT"),
		},
		&cli.DurationFlag{
			Name:        "http-timeout",
			Usage:       "Per-request timeout for upstream HTTP calls",
			Value:       30 * time.Second,
			Destination: &c.HTTPTimeout,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_HTTP_TIMEOUT"),
		},
	}
}
