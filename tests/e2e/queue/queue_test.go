//go:build e2e

package queue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mention-relay/internal/domain/job"
	"mention-relay/internal/infra/queue"
	"mention-relay/internal/pkg/config"
	"mention-relay/internal/usecase/shared"
	"mention-relay/tests/e2e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
)

type queueSuite struct {
	suite.Suite
	pool *pgxpool.Pool
}

func TestQueueSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(queueSuite))
}

func (s *queueSuite) SetupSuite() {
	s.pool = e2e.SetupBareDatabase(s.T())
}

func (s *queueSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE jobs")
	s.Require().NoError(err)
}

func (s *queueSuite) newQueue() *queueWrapper {
	cfg := config.QueueConfig{
		CompletedRetention: 10,
		FailedRetention:    50,
	}
	return &queueWrapper{q: queue.NewPostgresQueue(s.pool, cfg), s: s}
}

type queueWrapper struct {
	q shared.Queue
	s *queueSuite
}

func (w *queueWrapper) submit(p job.Payload, policy job.RetryPolicy) uuid.UUID {
	id, err := w.q.Submit(context.Background(), p, policy)
	w.s.Require().NoError(err)
	return id
}

func (s *queueSuite) rowState(jobID uuid.UUID) (state string, attempts int32) {
	err := s.pool.QueryRow(context.Background(),
		"SELECT state, attempts FROM jobs WHERE id = $1", jobID).Scan(&state, &attempts)
	s.Require().NoError(err)
	return state, attempts
}

func fastPolicy() job.RetryPolicy {
	return job.RetryPolicy{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond}
}

func mentionPayload() job.ProcessMentionsPayload {
	return job.ProcessMentionsPayload{
		PostID:         uuid.New(),
		Content:        "hi @bob",
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
	}
}

func (s *queueSuite) TestLeaseOrderIsFIFO() {
	w := s.newQueue()
	ctx := context.Background()

	first := w.submit(mentionPayload(), fastPolicy())
	second := w.submit(mentionPayload(), fastPolicy())

	leased, err := w.q.Lease(ctx, "worker-1")
	s.Require().NoError(err)
	s.Require().NotNil(leased)
	s.Equal(first, leased.ID)
	s.Equal(job.StateActive, leased.State)
	s.Require().NotNil(leased.LeasedBy)
	s.Equal("worker-1", *leased.LeasedBy)

	leased, err = w.q.Lease(ctx, "worker-2")
	s.Require().NoError(err)
	s.Require().NotNil(leased)
	s.Equal(second, leased.ID)

	// Everything is leased now.
	leased, err = w.q.Lease(ctx, "worker-3")
	s.Require().NoError(err)
	s.Nil(leased)
}

func (s *queueSuite) TestConcurrentLeaseNeverDoubleClaims() {
	w := s.newQueue()
	ctx := context.Background()

	jobID := w.submit(mentionPayload(), fastPolicy())

	const workers = 8
	var wg sync.WaitGroup
	claims := make(chan uuid.UUID, workers)

	for i := range workers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			leased, err := w.q.Lease(ctx, "racer")
			if err == nil && leased != nil {
				claims <- leased.ID
			}
		}(i)
	}
	wg.Wait()
	close(claims)

	var got []uuid.UUID
	for id := range claims {
		got = append(got, id)
	}
	s.Require().Len(got, 1, "exactly one worker may claim the job")
	s.Equal(jobID, got[0])
}

func (s *queueSuite) TestFailRetriesWithBackoffThenTerminal() {
	w := s.newQueue()
	ctx := context.Background()

	jobID := w.submit(mentionPayload(), fastPolicy())

	// Attempt 1 fails: back to waiting with a short delay.
	leased, err := w.q.Lease(ctx, "worker-1")
	s.Require().NoError(err)
	s.Require().NotNil(leased)
	s.Require().NoError(w.q.Fail(ctx, jobID, errors.New("attempt 1 failed")))

	state, attempts := s.rowState(jobID)
	s.Equal("waiting", state)
	s.Equal(int32(1), attempts)

	// Not leasable until the backoff elapses.
	leased, err = w.q.Lease(ctx, "worker-1")
	s.Require().NoError(err)
	if leased != nil {
		s.NotEqual(jobID, leased.ID)
	}

	s.Require().Eventually(func() bool {
		l, err := w.q.Lease(ctx, "worker-1")
		return err == nil && l != nil && l.ID == jobID
	}, 2*time.Second, 5*time.Millisecond)

	s.Require().NoError(w.q.Fail(ctx, jobID, errors.New("attempt 2 failed")))

	s.Require().Eventually(func() bool {
		l, err := w.q.Lease(ctx, "worker-1")
		return err == nil && l != nil && l.ID == jobID
	}, 2*time.Second, 5*time.Millisecond)

	// Third failure exhausts the budget.
	s.Require().NoError(w.q.Fail(ctx, jobID, errors.New("attempt 3 failed")))

	state, attempts = s.rowState(jobID)
	s.Equal("failed", state)
	s.Equal(int32(3), attempts)

	var lastError string
	err = s.pool.QueryRow(ctx, "SELECT last_error FROM jobs WHERE id = $1", jobID).Scan(&lastError)
	s.Require().NoError(err)
	s.Equal("attempt 3 failed", lastError)

	// Terminal jobs stay terminal.
	leased, err = w.q.Lease(ctx, "worker-1")
	s.Require().NoError(err)
	s.Nil(leased)
}

func (s *queueSuite) TestCompleteOnlyTouchesActiveJobs() {
	w := s.newQueue()
	ctx := context.Background()

	jobID := w.submit(mentionPayload(), fastPolicy())

	// Complete before lease is a no-op; the job stays waiting.
	s.Require().NoError(w.q.Complete(ctx, jobID))
	state, _ := s.rowState(jobID)
	s.Equal("waiting", state)

	_, err := w.q.Lease(ctx, "worker-1")
	s.Require().NoError(err)
	s.Require().NoError(w.q.Complete(ctx, jobID))

	state, _ = s.rowState(jobID)
	s.Equal("completed", state)
}

func (s *queueSuite) TestDiscardBypassesRetries() {
	w := s.newQueue()
	ctx := context.Background()

	jobID := w.submit(mentionPayload(), fastPolicy())

	_, err := w.q.Lease(ctx, "worker-1")
	s.Require().NoError(err)
	s.Require().NoError(w.q.Discard(ctx, jobID, errors.New("undecodable payload")))

	state, attempts := s.rowState(jobID)
	s.Equal("failed", state)
	s.Equal(int32(0), attempts)
}

func (s *queueSuite) TestReclaimExpiredLeases() {
	w := s.newQueue()
	ctx := context.Background()

	jobID := w.submit(mentionPayload(), fastPolicy())

	_, err := w.q.Lease(ctx, "crashed-worker")
	s.Require().NoError(err)

	// A cutoff in the past reclaims nothing.
	n, err := w.q.ReclaimExpired(ctx, time.Now().Add(-time.Hour))
	s.Require().NoError(err)
	s.Zero(n)

	// A future cutoff treats the lease as expired.
	n, err = w.q.ReclaimExpired(ctx, time.Now().Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	state, attempts := s.rowState(jobID)
	s.Equal("waiting", state)
	s.Equal(int32(0), attempts)

	leased, err := w.q.Lease(ctx, "worker-2")
	s.Require().NoError(err)
	s.Require().NotNil(leased)
	s.Equal(jobID, leased.ID)
}

func (s *queueSuite) TestCompletedRetentionEviction() {
	w := s.newQueue()
	ctx := context.Background()

	// Retention is 10; complete 12 jobs and only the newest 10 survive.
	ids := make([]uuid.UUID, 0, 12)
	for range 12 {
		id := w.submit(mentionPayload(), fastPolicy())
		ids = append(ids, id)

		_, err := w.q.Lease(ctx, "worker-1")
		s.Require().NoError(err)
		s.Require().NoError(w.q.Complete(ctx, id))
	}

	var count int
	err := s.pool.QueryRow(ctx, "SELECT count(*) FROM jobs WHERE state = 'completed'").Scan(&count)
	s.Require().NoError(err)
	s.Equal(10, count)

	// The evicted rows are the oldest ones.
	var exists bool
	err = s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)", ids[0]).Scan(&exists)
	s.Require().NoError(err)
	s.False(exists)
}
