package interfaces

import (
	"context"
	"time"

	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
)

// FetchUseCase collects scorecard data for the top packages
type FetchUseCase interface {
	// FetchSnapshot downloads the top-packages list, gathers scorecard
	// checks for every package and returns the aggregated, ordered result
	FetchSnapshot(ctx context.Context, date time.Time) (*model.Snapshot, error)
}

// PipelineUseCase executes one end-to-end run: prepare, fetch, render, publish
type PipelineUseCase interface {
	// Execute runs the pipeline for a trigger event. Returns
	// usecase.ErrRunInProgress when another run holds the single-flight
	// guard.
	Execute(ctx context.Context, trigger *model.TriggerEvent) (*model.RunResult, error)

	// Running reports whether a run is currently in flight
	Running() bool
}
