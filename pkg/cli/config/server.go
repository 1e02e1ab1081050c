package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr          string
	DispatchToken string `masq:"secret"`
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_ADDR"),
		},
		&cli.StringFlag{
			Name:        "dispatch-token",
			Usage:       "Bearer token required by the manual dispatch endpoint",
			Required:    true,
			Destination: &c.DispatchToken,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_DISPATCH_TOKEN"),
		},
	}
}
