package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/interfaces"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/types"
)

const (
	// DefaultAuthorName and DefaultAuthorEmail are the fixed publish
	// identity; every data commit is attributed to them.
	DefaultAuthorName  = "GitHub Actions"
	DefaultAuthorEmail = "noreply@github.com"

	DefaultBranch = "main"
	DefaultRemote = "origin"
)

type publisher struct {
	path        string
	branch      string
	remote      string
	authorName  string
	authorEmail string
	auth        transport.AuthMethod
	pushEnabled bool
	now         func() time.Time

	repo *git.Repository
}

// Option is a functional option for the publisher
type Option func(*publisher)

// WithBranch sets the branch that receives data commits
func WithBranch(branch string) Option {
	return func(p *publisher) {
		p.branch = branch
	}
}

// WithRemote sets the push remote name
func WithRemote(remote string) Option {
	return func(p *publisher) {
		p.remote = remote
	}
}

// WithAuthor overrides the commit author identity
func WithAuthor(name, email string) Option {
	return func(p *publisher) {
		p.authorName = name
		p.authorEmail = email
	}
}

// WithToken sets an access token for authenticated HTTPS pushes
func WithToken(token string) Option {
	return func(p *publisher) {
		if token != "" {
			p.auth = &githttp.BasicAuth{Username: "x-access-token", Password: token}
		}
	}
}

// WithPushDisabled turns off the push step, keeping the local commit only
func WithPushDisabled() Option {
	return func(p *publisher) {
		p.pushEnabled = false
	}
}

// WithClock overrides the commit timestamp source
func WithClock(now func() time.Time) Option {
	return func(p *publisher) {
		p.now = now
	}
}

// New creates a publisher for the repository at path
func New(path string, opts ...Option) interfaces.Publisher {
	p := &publisher{
		path:        path,
		branch:      DefaultBranch,
		remote:      DefaultRemote,
		authorName:  DefaultAuthorName,
		authorEmail: DefaultAuthorEmail,
		pushEnabled: true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare opens the repository, checks out the publish branch, fast-forwards
// it from the remote and ensures the data directory exists. Syncing here
// keeps a long-lived process pushable after the remote has moved on.
func (p *publisher) Prepare(ctx context.Context) error {
	repo, err := git.PlainOpen(p.path)
	if err != nil {
		return goerr.Wrap(err, "failed to open repository", goerr.V("path", p.path))
	}
	p.repo = repo

	wt, err := repo.Worktree()
	if err != nil {
		return goerr.Wrap(err, "failed to get worktree")
	}

	branchRef := plumbing.NewBranchReferenceName(p.branch)
	head, err := repo.Head()
	if err != nil {
		return goerr.Wrap(err, "failed to resolve HEAD", goerr.V("path", p.path))
	}
	if head.Name() != branchRef {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: branchRef}); err != nil {
			return goerr.Wrap(err, "failed to checkout branch", goerr.V("branch", p.branch))
		}
	}

	if p.pushEnabled {
		err := wt.PullContext(ctx, &git.PullOptions{
			RemoteName:    p.remote,
			ReferenceName: branchRef,
			SingleBranch:  true,
			Auth:          p.auth,
		})
		if err != nil &&
			!errors.Is(err, git.NoErrAlreadyUpToDate) &&
			!errors.Is(err, transport.ErrEmptyRemoteRepository) {
			return goerr.Wrap(err, "failed to sync with remote",
				goerr.V("remote", p.remote),
				goerr.V("branch", p.branch),
			)
		}
	}

	dataDir := filepath.Join(p.path, types.DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create data directory", goerr.V("dir", dataDir))
	}

	ctxlog.From(ctx).Debug("Repository prepared",
		"path", p.path,
		"branch", p.branch,
	)

	return nil
}

// Publish stages README.md and data/, commits and pushes. Staging is
// restricted to those two paths: unrelated dirty files never enter the
// commit. A run that changed nothing returns Skipped without committing.
func (p *publisher) Publish(ctx context.Context, snapshot *model.Snapshot) (*model.PublishResult, error) {
	logger := ctxlog.From(ctx)

	if p.repo == nil {
		return nil, goerr.New("publisher is not prepared")
	}

	wt, err := p.repo.Worktree()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get worktree")
	}

	if _, err := wt.Add(types.ReadmeFile); err != nil {
		return nil, goerr.Wrap(err, "failed to stage README", goerr.V("file", types.ReadmeFile))
	}
	if _, err := wt.Add(types.DataDir); err != nil {
		return nil, goerr.Wrap(err, "failed to stage data directory", goerr.V("dir", types.DataDir))
	}

	staged, err := p.hasStagedChanges(wt)
	if err != nil {
		return nil, err
	}
	if !staged {
		logger.Info("No data changes this run, skipping commit",
			"date", snapshot.Date.Format("2006-01-02"),
		)
		return &model.PublishResult{Skipped: true}, nil
	}

	message := snapshot.CommitMessage()
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  p.authorName,
			Email: p.authorEmail,
			When:  p.now(),
		},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to commit", goerr.V("message", message))
	}

	logger.Info("Created data commit",
		"hash", hash.String(),
		"message", message,
	)

	if p.pushEnabled {
		err := p.repo.PushContext(ctx, &git.PushOptions{
			RemoteName: p.remote,
			Auth:       p.auth,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil, goerr.Wrap(err, "failed to push",
				goerr.V("remote", p.remote),
				goerr.V("branch", p.branch),
			)
		}

		logger.Info("Pushed data commit",
			"remote", p.remote,
			"branch", p.branch,
		)
	}

	return &model.PublishResult{CommitHash: hash.String()}, nil
}

// hasStagedChanges reports whether any file is staged for commit
func (p *publisher) hasStagedChanges(wt *git.Worktree) (bool, error) {
	status, err := wt.Status()
	if err != nil {
		return false, goerr.Wrap(err, "failed to get worktree status")
	}

	for _, fs := range status {
		if fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
			return true, nil
		}
	}
	return false, nil
}
