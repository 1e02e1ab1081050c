package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/interfaces"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
)

// ErrRunInProgress is returned when a trigger arrives while another run
// still holds the single-flight guard. The remote branch is the only
// shared mutable resource, so overlapping runs are rejected instead of
// racing on the push.
var ErrRunInProgress = goerr.New("pipeline run already in progress")

type pipelineUseCase struct {
	fetch     interfaces.FetchUseCase
	renderer  *Renderer
	publisher interfaces.Publisher
	now       func() time.Time
	running   atomic.Bool
}

// PipelineOption is a functional option for the pipeline use case
type PipelineOption func(*pipelineUseCase)

// WithClock overrides the run date source
func WithClock(now func() time.Time) PipelineOption {
	return func(uc *pipelineUseCase) {
		uc.now = now
	}
}

// NewPipeline creates a new instance of PipelineUseCase
func NewPipeline(
	fetch interfaces.FetchUseCase,
	renderer *Renderer,
	publisher interfaces.Publisher,
	opts ...PipelineOption,
) interfaces.PipelineUseCase {
	uc := &pipelineUseCase{
		fetch:     fetch,
		renderer:  renderer,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Running reports whether a run is currently in flight
func (uc *pipelineUseCase) Running() bool {
	return uc.running.Load()
}

// Execute runs the linear pipeline: prepare the repository, fetch and
// aggregate scorecard data, write the artifacts, then commit and push.
// The first failing step aborts the run; in particular nothing is ever
// committed after a failed fetch.
func (uc *pipelineUseCase) Execute(ctx context.Context, trigger *model.TriggerEvent) (*model.RunResult, error) {
	if !uc.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer uc.running.Store(false)

	logger := ctxlog.From(ctx)

	result := &model.RunResult{
		RunID:     trigger.ID,
		Trigger:   trigger,
		Phase:     model.PhaseTriggered,
		StartedAt: uc.now(),
	}

	logger.Info("Pipeline run started",
		"run_id", result.RunID,
		"trigger", trigger.Kind,
		"scheduled_at", trigger.ScheduledAt,
	)

	if err := uc.publisher.Prepare(ctx); err != nil {
		return uc.fail(ctx, result, goerr.Wrap(err, "failed to prepare repository"))
	}
	result.Phase = model.PhaseEnvironmentReady

	snapshot, err := uc.fetch.FetchSnapshot(ctx, result.StartedAt)
	if err != nil {
		return uc.fail(ctx, result, goerr.Wrap(err, "failed to fetch snapshot"))
	}
	result.Phase = model.PhaseDataFetched
	result.PackageCount = len(snapshot.Packages)

	if err := uc.renderer.WriteArtifacts(ctx, snapshot); err != nil {
		return uc.fail(ctx, result, goerr.Wrap(err, "failed to write artifacts"))
	}

	publish, err := uc.publisher.Publish(ctx, snapshot)
	if err != nil {
		return uc.fail(ctx, result, goerr.Wrap(err, "failed to publish"))
	}
	result.Phase = model.PhasePublished
	result.CommitHash = publish.CommitHash
	result.Skipped = publish.Skipped

	result.Phase = model.PhaseDone
	result.FinishedAt = uc.now()

	logger.Info("Pipeline run finished",
		"run_id", result.RunID,
		"duration_ms", result.Duration().Milliseconds(),
		"package_count", result.PackageCount,
		"commit", result.CommitHash,
		"skipped", result.Skipped,
	)

	return result, nil
}

func (uc *pipelineUseCase) fail(ctx context.Context, result *model.RunResult, err error) (*model.RunResult, error) {
	result.Phase = model.PhaseFailed
	result.FinishedAt = uc.now()

	ctxlog.From(ctx).Error("Pipeline run failed",
		"run_id", result.RunID,
		"trigger", result.Trigger.Kind,
		"error", err,
	)

	return result, err
}
