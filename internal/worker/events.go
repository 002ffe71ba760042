package worker

import (
	"log/slog"
	"time"

	"mention-relay/internal/domain/job"
)

// Events receives per-job lifecycle notifications from the pool. The
// default implementation logs; metrics backends can swap in their own.
type Events interface {
	JobStarted(workerID string, j *job.Job)
	JobCompleted(workerID string, j *job.Job, took time.Duration)
	JobFailed(workerID string, j *job.Job, took time.Duration, err error)
}

type slogEvents struct {
	logger *slog.Logger
}

func NewSlogEvents(logger *slog.Logger) Events {
	return &slogEvents{logger: logger}
}

func (e *slogEvents) JobStarted(workerID string, j *job.Job) {
	e.logger.Info("job started",
		"worker_id", workerID,
		"job_id", j.ID,
		"kind", j.Kind,
		"attempt", j.Attempts+1)
}

func (e *slogEvents) JobCompleted(workerID string, j *job.Job, took time.Duration) {
	e.logger.Info("job completed",
		"worker_id", workerID,
		"job_id", j.ID,
		"kind", j.Kind,
		"duration", took)
}

func (e *slogEvents) JobFailed(workerID string, j *job.Job, took time.Duration, err error) {
	e.logger.Warn("job failed",
		"worker_id", workerID,
		"job_id", j.ID,
		"kind", j.Kind,
		"attempt", j.Attempts+1,
		"duration", took,
		"error", err)
}
