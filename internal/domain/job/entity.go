package job

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// State is the job lifecycle position. Transitions:
//
//	Waiting → Active → Completed
//	Waiting → Active → Failed → Waiting (retry, attempts < max)
//	Waiting → Active → Failed (terminal, attempts exhausted)
type State string

const (
	StateWaiting   State = "waiting"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

func (s State) String() string { return string(s) }

// Terminal reports whether a job in this state will never run again.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Job is one unit of deferred work as read back from the queue. Only the
// queue mutates job rows; this struct is a snapshot for workers and
// diagnostics.
type Job struct {
	ID          uuid.UUID
	Kind        Kind
	Payload     json.RawMessage
	State       State
	Attempts    int32
	MaxAttempts int32
	BaseDelay   time.Duration
	RunAt       time.Time
	LeasedBy    *string
	LeasedAt    *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DecodePayload rebuilds the typed payload for dispatch.
func (j *Job) DecodePayload() (Payload, error) {
	return Decode(j.Kind, j.Payload)
}
