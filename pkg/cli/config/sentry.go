package config

import (
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN string `masq:"secret"`
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for run failure reporting (disabled when empty)",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_SENTRY_DSN"),
		},
	}
}

// Configure initializes the Sentry SDK. Returns false when no DSN is set
// and reporting stays disabled.
func (c *Sentry) Configure() (bool, error) {
	if c.DSN == "" {
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:     c.DSN,
		Release: types.AppName + "@" + types.Version,
	})
	if err != nil {
		return false, goerr.Wrap(err, "failed to initialize sentry")
	}

	return true, nil
}
