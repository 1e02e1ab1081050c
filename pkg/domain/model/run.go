package model

import (
	"time"

	"github.com/google/uuid"
)

// RunPhase tracks progress through the linear pipeline. A run advances
// strictly forward; any failure leaves it in PhaseFailed.
type RunPhase string

const (
	PhaseTriggered        RunPhase = "triggered"
	PhaseEnvironmentReady RunPhase = "environment_ready"
	PhaseDataFetched      RunPhase = "data_fetched"
	PhasePublished        RunPhase = "published"
	PhaseDone             RunPhase = "done"
	PhaseFailed           RunPhase = "failed"
)

// RunResult records the outcome of one pipeline run
type RunResult struct {
	RunID        uuid.UUID
	Trigger      *TriggerEvent
	Phase        RunPhase
	StartedAt    time.Time
	FinishedAt   time.Time
	PackageCount int
	CommitHash   string
	// Skipped is true when the fetch produced no file changes and the
	// commit was skipped. The run still counts as success.
	Skipped bool
}

// Duration returns the wall-clock time of the run
func (r *RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
