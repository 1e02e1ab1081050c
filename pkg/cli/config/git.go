package config

import (
	"github.com/sethmlarson/pypi-scorecards/pkg/infra/gitrepo"
	"github.com/urfave/cli/v3"
)

// Git holds git repository and publish configuration
type Git struct {
	RepoPath    string
	Branch      string
	Remote      string
	AuthorName  string
	AuthorEmail string
	Token       string `masq:"secret"`
}

// Flags returns CLI flags for git configuration
func (c *Git) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo-path",
			Usage:       "Path to the local checkout that receives data commits",
			Value:       ".",
			Destination: &c.RepoPath,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_REPO_PATH"),
		},
		&cli.StringFlag{
			Name:        "branch",
			Usage:       "Branch that receives data commits",
			Value:       gitrepo.DefaultBranch,
			Destination: &c.Branch,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "remote",
			Usage:       "Push remote name",
			Value:       gitrepo.DefaultRemote,
			Destination: &c.Remote,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_REMOTE"),
		},
		&cli.StringFlag{
			Name:        "author-name",
			Usage:       "Commit author name",
			Value:       gitrepo.DefaultAuthorName,
			Destination: &c.AuthorName,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_AUTHOR_NAME"),
		},
		&cli.StringFlag{
			Name:        "author-email",
			Usage:       "Commit author email",
			Value:       gitrepo.DefaultAuthorEmail,
			Destination: &c.AuthorEmail,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_AUTHOR_EMAIL"),
		},
		&cli.StringFlag{
			Name:        "git-token",
			Usage:       "Access token for authenticated HTTPS pushes",
			Destination: &c.Token,
			Sources:     cli.EnvVars("PYPI_SCORECARDS_GIT_TOKEN"),
		},
	}
}
