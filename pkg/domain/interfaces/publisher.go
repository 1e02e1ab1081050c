package interfaces

import (
	"context"

	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
)

// Publisher commits and pushes a snapshot's artifacts to the main branch
type Publisher interface {
	// Prepare opens the repository, checks out the target branch and
	// ensures the data directory exists. Must be called before the fetch
	// step so a broken checkout aborts the run early.
	Prepare(ctx context.Context) error

	// Publish stages README.md and data/, commits with the snapshot's
	// message under the fixed author identity, and pushes. When staging
	// produces no diff it returns a result with Skipped set and does not
	// commit or push.
	Publish(ctx context.Context, snapshot *model.Snapshot) (*model.PublishResult, error)
}
