package model

import (
	"time"

	"github.com/google/uuid"
)

// TriggerKind represents how a pipeline run was started
type TriggerKind string

const (
	TriggerSchedule TriggerKind = "schedule"
	TriggerManual   TriggerKind = "manual"
)

// TriggerEvent starts a pipeline run. Scheduled and manual triggers carry
// the same shape; nothing downstream branches on Kind.
type TriggerEvent struct {
	ID          uuid.UUID
	Kind        TriggerKind
	ScheduledAt time.Time // intended fire time; equals FiredAt for manual runs
	FiredAt     time.Time
}

// NewTrigger creates a trigger event fired now
func NewTrigger(kind TriggerKind, scheduledAt time.Time) *TriggerEvent {
	now := time.Now()
	if scheduledAt.IsZero() {
		scheduledAt = now
	}
	return &TriggerEvent{
		ID:          uuid.New(),
		Kind:        kind,
		ScheduledAt: scheduledAt,
		FiredAt:     now,
	}
}
