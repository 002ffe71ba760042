package shared

import (
	"context"
	"time"

	"mention-relay/internal/domain/job"
	"mention-relay/internal/domain/notification"

	"github.com/google/uuid"
)

// UserSnapshot is the slice of the user directory the pipeline needs.
// Deleted users never appear in snapshots.
type UserSnapshot struct {
	ID       uuid.UUID
	Username string
	Name     string
	Email    string
}

// Queue is the durable job store. State transitions are atomic with
// respect to concurrent workers: a job is leased by at most one worker
// at a time.
type Queue interface {
	// Submit persists a new Waiting job and returns its ID.
	Submit(ctx context.Context, p job.Payload, policy job.RetryPolicy) (uuid.UUID, error)
	// Lease claims the oldest eligible Waiting job for workerID,
	// transitioning it to Active. Returns nil when nothing is eligible.
	Lease(ctx context.Context, workerID string) (*job.Job, error)
	// Complete transitions an Active job to Completed.
	Complete(ctx context.Context, jobID uuid.UUID) error
	// Fail records a failed attempt: back to Waiting with backoff while
	// attempts remain, terminal Failed otherwise.
	Fail(ctx context.Context, jobID uuid.UUID, cause error) error
	// Discard moves a job straight to terminal Failed, bypassing retries.
	// Used for permanent faults such as an undecodable payload.
	Discard(ctx context.Context, jobID uuid.UUID, cause error) error
	// ReclaimExpired returns Active jobs leased before cutoff to Waiting
	// so a crashed worker's jobs are not stuck forever.
	ReclaimExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// IdentityResolver maps handles to live user identities. Unknown and
// deleted handles are simply absent from the result, never an error.
type IdentityResolver interface {
	ResolveByUsernames(ctx context.Context, handles []string) ([]UserSnapshot, error)
}

// NotificationRepository is the write side of the notification store.
// MarkRead/MarkAllRead return the number of rows actually flipped;
// zero means not-found / not-owned / already-read and is not an error.
type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	MarkRead(ctx context.Context, notificationID, requesterID uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

// Mailer is the downstream email collaborator.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}
