package cli

import (
	"net/http"

	"github.com/sethmlarson/pypi-scorecards/pkg/cli/config"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/interfaces"
	"github.com/sethmlarson/pypi-scorecards/pkg/infra/depsdev"
	"github.com/sethmlarson/pypi-scorecards/pkg/infra/gitrepo"
	"github.com/sethmlarson/pypi-scorecards/pkg/infra/pypi"
	"github.com/sethmlarson/pypi-scorecards/pkg/usecase"
)

// newFetch wires the upstream clients into a fetch use case
func newFetch(srcCfg *config.Sources, progress usecase.ProgressEmitter) interfaces.FetchUseCase {
	httpClient := &http.Client{Timeout: srcCfg.HTTPTimeout}

	topClient := pypi.NewClient(
		pypi.WithURL(srcCfg.TopPackagesURL),
		pypi.WithHTTPClient(httpClient),
	)
	scorecardClient := depsdev.NewClient(
		depsdev.WithBaseURL(srcCfg.DepsDevBaseURL),
		depsdev.WithRateLimit(srcCfg.RatePerSecond),
		depsdev.WithHTTPClient(httpClient),
	)

	return usecase.NewFetch(topClient, scorecardClient,
		usecase.WithConcurrency(srcCfg.Concurrency),
		usecase.WithProgress(progress),
	)
}

// newPipeline wires the full pipeline: fetch, renderer, publisher
func newPipeline(gitCfg *config.Git, srcCfg *config.Sources, progress usecase.ProgressEmitter) (interfaces.PipelineUseCase, error) {
	renderer, err := usecase.NewRenderer(gitCfg.RepoPath)
	if err != nil {
		return nil, err
	}

	publisher := gitrepo.New(gitCfg.RepoPath,
		gitrepo.WithBranch(gitCfg.Branch),
		gitrepo.WithRemote(gitCfg.Remote),
		gitrepo.WithAuthor(gitCfg.AuthorName, gitCfg.AuthorEmail),
		gitrepo.WithToken(gitCfg.Token),
	)

	fetchUC := newFetch(srcCfg, progress)

	return usecase.NewPipeline(fetchUC, renderer, publisher), nil
}
