package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/interfaces"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
)

const defaultConcurrency = 16

type fetchUseCase struct {
	topClient       interfaces.TopPackagesClient
	scorecardClient interfaces.ScorecardClient
	concurrency     int
	progress        ProgressEmitter
}

// FetchOption is a functional option for the fetch use case
type FetchOption func(*fetchUseCase)

// WithConcurrency sets the scorecard worker pool size
func WithConcurrency(n int) FetchOption {
	return func(uc *fetchUseCase) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

// WithProgress sets the progress emitter used during the scorecard fetch
func WithProgress(p ProgressEmitter) FetchOption {
	return func(uc *fetchUseCase) {
		uc.progress = p
	}
}

// NewFetch creates a new instance of FetchUseCase
func NewFetch(
	topClient interfaces.TopPackagesClient,
	scorecardClient interfaces.ScorecardClient,
	opts ...FetchOption,
) interfaces.FetchUseCase {
	uc := &fetchUseCase{
		topClient:       topClient,
		scorecardClient: scorecardClient,
		concurrency:     defaultConcurrency,
		progress:        NopProgress(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// FetchSnapshot downloads the top-packages list and collects scorecard
// checks for every package with a bounded worker pool. A package unknown
// to deps.dev is kept with an empty check set, but a lookup that errors
// after retries fails the whole fetch: a dataset with holes burned in by
// an outage must never reach the publish step.
func (uc *fetchUseCase) FetchSnapshot(ctx context.Context, date time.Time) (*model.Snapshot, error) {
	logger := ctxlog.From(ctx)

	packages, err := uc.topClient.FetchTopPackages(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch top packages")
	}
	if len(packages) == 0 {
		return nil, goerr.New("top packages dataset is empty")
	}

	logger.Info("Fetched top packages list",
		"package_count", len(packages),
	)

	uc.progress.Start(len(packages))
	err = uc.collectChecks(ctx, packages)
	uc.progress.Done()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to collect scorecard data")
	}

	checkNames := model.CheckNames(packages)
	model.FillMissingChecks(packages, checkNames)
	model.SortPackages(packages)

	logger.Info("Collected scorecard data",
		"package_count", len(packages),
		"check_count", len(checkNames),
	)

	return &model.Snapshot{
		Date:       date,
		CheckNames: checkNames,
		Packages:   packages,
	}, nil
}

// collectChecks fans packages out to a worker pool. Each worker owns the
// packages it receives, so check maps are written without locking; progress
// updates are serialized through the done channel. The first lookup error
// cancels the remaining work and fails the collection.
func (uc *fetchUseCase) collectChecks(ctx context.Context, packages []*model.Package) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan *model.Package)
	done := make(chan error)

	var wg sync.WaitGroup
	for i := 0; i < uc.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pkg := range jobs {
				checks, err := uc.scorecardClient.FetchChecks(ctx, pkg.Name)
				if err != nil {
					done <- goerr.Wrap(err, "scorecard lookup failed", goerr.V("package", pkg.Name))
					continue
				}
				for name, score := range checks {
					pkg.SetCheck(name, score)
				}
				done <- nil
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, pkg := range packages {
			select {
			case <-ctx.Done():
				return
			case jobs <- pkg:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	var firstErr error
	for err := range done {
		if err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
		uc.progress.Increment()
	}

	return firstErr
}
