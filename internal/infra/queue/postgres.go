package queue

import (
	"context"
	"time"

	"mention-relay/internal/domain/job"
	"mention-relay/internal/infra"
	"mention-relay/internal/infra/db"
	"mention-relay/internal/pkg/config"
	"mention-relay/internal/pkg/pgconv"
	"mention-relay/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const submitJobSQL = `
INSERT INTO jobs (id, kind, payload, state, attempts, max_attempts, base_delay_ms, run_at, created_at, updated_at)
VALUES ($1, $2, $3, 'waiting', 0, $4, $5, now(), now(), now())`

// FOR UPDATE SKIP LOCKED makes the claim race-free: concurrent workers
// each lock a different row or none, so a job is never double-leased.
const leaseJobSQL = `
UPDATE jobs SET state = 'active', leased_by = $1, leased_at = now(), updated_at = now()
WHERE id = (
	SELECT id FROM jobs
	WHERE state = 'waiting' AND run_at <= now()
	ORDER BY created_at, id
	LIMIT 1
	FOR UPDATE SKIP LOCKED
)
RETURNING id, kind, payload, state, attempts, max_attempts, base_delay_ms, run_at, leased_by, leased_at, last_error, created_at, updated_at`

const completeJobSQL = `
UPDATE jobs SET state = 'completed', leased_by = NULL, leased_at = NULL, updated_at = now()
WHERE id = $1 AND state = 'active'`

// attempts on the right-hand side is the pre-update value, so the delay
// before attempt k works out to base_delay * 2^(k-2).
const failJobSQL = `
UPDATE jobs SET
	attempts   = attempts + 1,
	state      = CASE WHEN attempts + 1 < max_attempts THEN 'waiting' ELSE 'failed' END,
	run_at     = CASE WHEN attempts + 1 < max_attempts THEN now() + (base_delay_ms << attempts) * interval '1 millisecond' ELSE run_at END,
	leased_by  = NULL,
	leased_at  = NULL,
	last_error = $2,
	updated_at = now()
WHERE id = $1 AND state = 'active'
RETURNING state`

const discardJobSQL = `
UPDATE jobs SET state = 'failed', leased_by = NULL, leased_at = NULL, last_error = $2, updated_at = now()
WHERE id = $1 AND state = 'active'`

const evictTerminalSQL = `
DELETE FROM jobs
WHERE id IN (
	SELECT id FROM jobs
	WHERE state = $1
	ORDER BY updated_at DESC, id DESC
	OFFSET $2
)`

const reclaimExpiredSQL = `
UPDATE jobs SET state = 'waiting', leased_by = NULL, leased_at = NULL, run_at = now(), updated_at = now()
WHERE state = 'active' AND leased_at < $1`

// PostgresQueue is the durable job store. Every transition is a single
// guarded UPDATE, so concurrent workers and a restarting process cannot
// corrupt job state.
type PostgresQueue struct {
	pool               *pgxpool.Pool
	completedRetention int
	failedRetention    int
}

func NewPostgresQueue(pool *pgxpool.Pool, cfg config.QueueConfig) shared.Queue {
	return &PostgresQueue{
		pool:               pool,
		completedRetention: cfg.CompletedRetention,
		failedRetention:    cfg.FailedRetention,
	}
}

func (q *PostgresQueue) Submit(ctx context.Context, p job.Payload, policy job.RetryPolicy) (uuid.UUID, error) {
	raw, err := job.Encode(p)
	if err != nil {
		return uuid.Nil, err
	}

	jobID := uuid.New()
	_, err = q.pool.Exec(ctx, submitJobSQL,
		jobID,
		p.Kind().String(),
		raw,
		policy.MaxAttempts,
		policy.BaseDelay.Milliseconds(),
	)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to submit job", err)
	}

	return jobID, nil
}

func (q *PostgresQueue) Lease(ctx context.Context, workerID string) (*job.Job, error) {
	row := q.pool.QueryRow(ctx, leaseJobSQL, workerID)

	leased, err := scanJob(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to lease job", err)
	}

	return leased, nil
}

func (q *PostgresQueue) Complete(ctx context.Context, jobID uuid.UUID) error {
	_, err := db.RunInTx(ctx, q.pool, func(tx db.DBTX) (struct{}, error) {
		if _, err := tx.Exec(ctx, completeJobSQL, jobID); err != nil {
			return struct{}{}, err
		}
		_, err := tx.Exec(ctx, evictTerminalSQL, job.StateCompleted.String(), q.completedRetention)
		return struct{}{}, err
	})
	if err != nil {
		return infra.WrapRepoErr("failed to complete job", err)
	}
	return nil
}

func (q *PostgresQueue) Fail(ctx context.Context, jobID uuid.UUID, cause error) error {
	_, err := db.RunInTx(ctx, q.pool, func(tx db.DBTX) (struct{}, error) {
		var newState string
		err := tx.QueryRow(ctx, failJobSQL, jobID, cause.Error()).Scan(&newState)
		if err != nil {
			if pgconv.IsNoRows(err) {
				// Not active anymore (already terminal or reclaimed); no-op.
				return struct{}{}, nil
			}
			return struct{}{}, err
		}

		if newState == job.StateFailed.String() {
			if _, err := tx.Exec(ctx, evictTerminalSQL, job.StateFailed.String(), q.failedRetention); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return infra.WrapRepoErr("failed to record job failure", err)
	}
	return nil
}

func (q *PostgresQueue) Discard(ctx context.Context, jobID uuid.UUID, cause error) error {
	_, err := db.RunInTx(ctx, q.pool, func(tx db.DBTX) (struct{}, error) {
		if _, err := tx.Exec(ctx, discardJobSQL, jobID, cause.Error()); err != nil {
			return struct{}{}, err
		}
		_, err := tx.Exec(ctx, evictTerminalSQL, job.StateFailed.String(), q.failedRetention)
		return struct{}{}, err
	})
	if err != nil {
		return infra.WrapRepoErr("failed to discard job", err)
	}
	return nil
}

func (q *PostgresQueue) ReclaimExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := q.pool.Exec(ctx, reclaimExpiredSQL, cutoff)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to reclaim expired leases", err)
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*job.Job, error) {
	var (
		j           job.Job
		kind        string
		state       string
		baseDelayMS int64
		runAt       pgtype.Timestamptz
		leasedBy    pgtype.Text
		leasedAt    pgtype.Timestamptz
		lastError   pgtype.Text
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&j.ID, &kind, &j.Payload, &state, &j.Attempts, &j.MaxAttempts,
		&baseDelayMS, &runAt, &leasedBy, &leasedAt, &lastError, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	j.Kind = job.Kind(kind)
	j.State = job.State(state)
	j.BaseDelay = time.Duration(baseDelayMS) * time.Millisecond
	j.RunAt = pgconv.TimeFromPgtype(runAt)
	j.LeasedBy = pgconv.StringPtrFromPgtype(leasedBy)
	j.LeasedAt = pgconv.TimePtrFromPgtype(leasedAt)
	j.LastError = pgconv.StringPtrFromPgtype(lastError)
	j.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	j.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	return &j, nil
}
