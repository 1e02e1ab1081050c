package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/interfaces"
	"github.com/sethmlarson/pypi-scorecards/pkg/domain/model"
	"github.com/sethmlarson/pypi-scorecards/pkg/usecase"
)

type fetchMock struct {
	mu       sync.Mutex
	calls    int
	err      error
	snapshot *model.Snapshot
	block    chan struct{}
}

func (m *fetchMock) FetchSnapshot(ctx context.Context, date time.Time) (*model.Snapshot, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.block != nil {
		<-m.block
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

type publisherMock struct {
	mu         sync.Mutex
	prepared   int
	published  int
	prepareErr error
	publishErr error
	result     *model.PublishResult
}

func (m *publisherMock) Prepare(ctx context.Context) error {
	m.mu.Lock()
	m.prepared++
	m.mu.Unlock()
	return m.prepareErr
}

func (m *publisherMock) Publish(ctx context.Context, snapshot *model.Snapshot) (*model.PublishResult, error) {
	m.mu.Lock()
	m.published++
	m.mu.Unlock()
	if m.publishErr != nil {
		return nil, m.publishErr
	}
	return m.result, nil
}

func newTestPipeline(t *testing.T, fetch interfaces.FetchUseCase, pub interfaces.Publisher) interfaces.PipelineUseCase {
	t.Helper()
	renderer, err := usecase.NewRenderer(t.TempDir())
	gt.NoError(t, err)
	return usecase.NewPipeline(fetch, renderer, pub)
}

func TestPipeline_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("runs all steps in order", func(t *testing.T) {
		fetch := &fetchMock{snapshot: testSnapshot()}
		pub := &publisherMock{result: &model.PublishResult{CommitHash: "abc123"}}
		pipeline := newTestPipeline(t, fetch, pub)

		trigger := model.NewTrigger(model.TriggerManual, time.Time{})
		result, err := pipeline.Execute(ctx, trigger)
		gt.NoError(t, err)

		gt.Equal(t, result.Phase, model.PhaseDone)
		gt.Equal(t, result.RunID, trigger.ID)
		gt.Equal(t, result.PackageCount, 2)
		gt.Equal(t, result.CommitHash, "abc123")
		gt.Equal(t, result.Skipped, false)
		gt.Equal(t, pub.prepared, 1)
		gt.Equal(t, pub.published, 1)
	})

	t.Run("fetch failure aborts before publish", func(t *testing.T) {
		fetch := &fetchMock{err: goerr.New("upstream down")}
		pub := &publisherMock{}
		pipeline := newTestPipeline(t, fetch, pub)

		result, err := pipeline.Execute(ctx, model.NewTrigger(model.TriggerSchedule, time.Time{}))
		gt.Error(t, err)
		gt.Equal(t, result.Phase, model.PhaseFailed)

		// no commit is ever attempted after a failed fetch
		gt.Equal(t, pub.prepared, 1)
		gt.Equal(t, pub.published, 0)
	})

	t.Run("prepare failure aborts before fetch", func(t *testing.T) {
		fetch := &fetchMock{snapshot: testSnapshot()}
		pub := &publisherMock{prepareErr: goerr.New("no such branch")}
		pipeline := newTestPipeline(t, fetch, pub)

		result, err := pipeline.Execute(ctx, model.NewTrigger(model.TriggerManual, time.Time{}))
		gt.Error(t, err)
		gt.Equal(t, result.Phase, model.PhaseFailed)
		gt.Equal(t, fetch.calls, 0)
	})

	t.Run("publish failure fails the run", func(t *testing.T) {
		fetch := &fetchMock{snapshot: testSnapshot()}
		pub := &publisherMock{publishErr: goerr.New("push rejected")}
		pipeline := newTestPipeline(t, fetch, pub)

		result, err := pipeline.Execute(ctx, model.NewTrigger(model.TriggerSchedule, time.Time{}))
		gt.Error(t, err)
		gt.Equal(t, result.Phase, model.PhaseFailed)
		gt.String(t, err.Error()).Contains("failed to publish")
	})

	t.Run("skipped publish is a successful run", func(t *testing.T) {
		fetch := &fetchMock{snapshot: testSnapshot()}
		pub := &publisherMock{result: &model.PublishResult{Skipped: true}}
		pipeline := newTestPipeline(t, fetch, pub)

		result, err := pipeline.Execute(ctx, model.NewTrigger(model.TriggerSchedule, time.Time{}))
		gt.NoError(t, err)
		gt.Equal(t, result.Phase, model.PhaseDone)
		gt.Equal(t, result.Skipped, true)
		gt.Equal(t, result.CommitHash, "")
	})

	t.Run("scheduled and manual triggers run the same path", func(t *testing.T) {
		for _, kind := range []model.TriggerKind{model.TriggerSchedule, model.TriggerManual} {
			fetch := &fetchMock{snapshot: testSnapshot()}
			pub := &publisherMock{result: &model.PublishResult{CommitHash: "abc123"}}
			pipeline := newTestPipeline(t, fetch, pub)

			result, err := pipeline.Execute(ctx, model.NewTrigger(kind, time.Time{}))
			gt.NoError(t, err)
			gt.Equal(t, result.Phase, model.PhaseDone)
			gt.Equal(t, result.Trigger.Kind, kind)
			gt.Equal(t, fetch.calls, 1)
			gt.Equal(t, pub.prepared, 1)
			gt.Equal(t, pub.published, 1)
		}
	})

	t.Run("rejects overlapping runs", func(t *testing.T) {
		block := make(chan struct{})
		fetch := &fetchMock{snapshot: testSnapshot(), block: block}
		pub := &publisherMock{result: &model.PublishResult{CommitHash: "abc123"}}
		pipeline := newTestPipeline(t, fetch, pub)

		done := make(chan error, 1)
		go func() {
			_, err := pipeline.Execute(ctx, model.NewTrigger(model.TriggerSchedule, time.Time{}))
			done <- err
		}()

		// wait until the first run holds the guard
		for !pipeline.Running() {
			time.Sleep(time.Millisecond)
		}

		_, err := pipeline.Execute(ctx, model.NewTrigger(model.TriggerManual, time.Time{}))
		gt.True(t, errors.Is(err, usecase.ErrRunInProgress))

		close(block)
		gt.NoError(t, <-done)
		gt.Equal(t, pipeline.Running(), false)
	})
}
