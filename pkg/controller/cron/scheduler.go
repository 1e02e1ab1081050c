package cron

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/interfaces"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
	"github.com/sethmlarson/pypi-scorecards/pkg/usecase"
)

// DefaultSpec fires every 7 days at midnight (Sunday)
const DefaultSpec = "0 0 * * 0"

// Scheduler fires pipeline runs on a cron schedule. It is the scheduled
// counterpart of the HTTP dispatch endpoint: both build a TriggerEvent and
// call the same pipeline entrypoint.
type Scheduler struct {
	pipeline interfaces.PipelineUseCase
	spec     string
	schedule cron.Schedule
	runner   *cron.Cron
	onError  func(error)
}

// Option is a functional option for the scheduler
type Option func(*Scheduler)

// WithSpec sets the cron expression (standard five-field format)
func WithSpec(spec string) Option {
	return func(s *Scheduler) {
		s.spec = spec
	}
}

// WithErrorHandler sets a callback invoked when a scheduled run fails
func WithErrorHandler(fn func(error)) Option {
	return func(s *Scheduler) {
		s.onError = fn
	}
}

// New creates a scheduler for the pipeline. The cron expression is
// validated here so a bad configuration fails at startup, not at the
// first tick.
func New(pipeline interfaces.PipelineUseCase, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		pipeline: pipeline,
		spec:     DefaultSpec,
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(s)
	}

	schedule, err := cron.ParseStandard(s.spec)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid cron expression", goerr.V("spec", s.spec))
	}
	s.schedule = schedule

	return s, nil
}

// Start begins firing scheduled runs until Stop is called
func (s *Scheduler) Start(ctx context.Context) error {
	logger := ctxlog.From(ctx)

	runner := cron.New()
	_, err := runner.AddFunc(s.spec, func() {
		s.fire(ctx)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to register cron job", goerr.V("spec", s.spec))
	}

	s.runner = runner
	runner.Start()

	logger.Info("Scheduler started",
		"spec", s.spec,
		"next_run", s.NextRun(time.Now()),
	)

	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish
func (s *Scheduler) Stop() {
	if s.runner != nil {
		<-s.runner.Stop().Done()
	}
}

// NextRun returns the next fire time after t
func (s *Scheduler) NextRun(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// fire executes one scheduled run. Errors are logged and reported, never
// propagated: a failed week must not stop the schedule.
func (s *Scheduler) fire(ctx context.Context) {
	logger := ctxlog.From(ctx)

	trigger := model.NewTrigger(model.TriggerSchedule, time.Now())

	result, err := s.pipeline.Execute(ctx, trigger)
	if err != nil {
		if errors.Is(err, usecase.ErrRunInProgress) {
			logger.Warn("Scheduled run skipped, another run is in flight",
				"run_id", trigger.ID,
			)
			return
		}
		s.onError(err)
		return
	}

	logger.Info("Scheduled run completed",
		"run_id", result.RunID,
		"commit", result.CommitHash,
		"skipped", result.Skipped,
		"next_run", s.NextRun(time.Now()),
	)
}
