package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"mention-relay/internal/domain/job"
	"mention-relay/internal/pkg/clock"
	"mention-relay/internal/pkg/config"
	"mention-relay/internal/pkg/errs"
	"mention-relay/internal/usecase/commands"
	"mention-relay/internal/usecase/shared"
)

// Pool is a fixed-size set of consumers sharing one queue. Each worker
// leases the next eligible job, dispatches it by kind, and reports the
// outcome back. A panicking or unknown-kind job fails that job only;
// workers always survive.
type Pool struct {
	queue      shared.Queue
	dispatcher commands.Dispatcher
	events     Events
	clock      clock.Clock
	logger     *slog.Logger

	workerCount  int
	pollInterval time.Duration
	leaseTimeout time.Duration

	wg sync.WaitGroup
}

func NewPool(
	queue shared.Queue,
	dispatcher commands.Dispatcher,
	events Events,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.QueueConfig,
) *Pool {
	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
	}

	return &Pool{
		queue:        queue,
		dispatcher:   dispatcher,
		events:       events,
		clock:        clk,
		logger:       logger,
		workerCount:  workerCount,
		pollInterval: cfg.PollInterval,
		leaseTimeout: cfg.LeaseTimeout,
	}
}

// Start launches the workers and the lease reclaimer. They run until ctx
// is cancelled; Wait blocks until all of them have drained.
func (p *Pool) Start(ctx context.Context) {
	for i := range p.workerCount {
		workerID := fmt.Sprintf("worker-%d", i+1)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.runWorker(ctx, workerID)
		}()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runReclaimer(ctx)
	}()
}

func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) runWorker(ctx context.Context, workerID string) {
	p.logger.Debug("worker started", "worker_id", workerID)

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("worker shutting down", "worker_id", workerID)
			return
		default:
		}

		leased, err := p.queue.Lease(ctx, workerID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("lease failed", "worker_id", workerID, "error", err)
			p.sleep(ctx, p.pollInterval)
			continue
		}
		if leased == nil {
			p.sleep(ctx, p.pollInterval)
			continue
		}

		p.execute(ctx, workerID, leased)
	}
}

func (p *Pool) execute(ctx context.Context, workerID string, leased *job.Job) {
	payload, err := leased.DecodePayload()
	if err != nil {
		// Undecodable jobs can never succeed; retrying would just burn
		// attempts, so they go straight to terminal Failed.
		p.events.JobFailed(workerID, leased, 0, err)
		if derr := p.queue.Discard(ctx, leased.ID, err); derr != nil {
			p.logger.Error("failed to discard job", "job_id", leased.ID, "error", derr)
		}
		return
	}

	p.events.JobStarted(workerID, leased)
	started := p.clock.Now()

	err = p.dispatch(ctx, payload)
	took := p.clock.Now().Sub(started)

	if err != nil {
		p.events.JobFailed(workerID, leased, took, err)

		var qerr error
		if errors.Is(err, job.ErrUnknownKind) {
			qerr = p.queue.Discard(ctx, leased.ID, err)
		} else {
			qerr = p.queue.Fail(ctx, leased.ID, err)
		}
		if qerr != nil {
			p.logger.Error("failed to record job failure", "job_id", leased.ID, "error", qerr)
		}
		return
	}

	p.events.JobCompleted(workerID, leased, took)
	if cerr := p.queue.Complete(ctx, leased.ID); cerr != nil {
		p.logger.Error("failed to complete job", "job_id", leased.ID, "error", cerr)
	}
}

// dispatch converts handler panics into errors so one bad job cannot
// take a worker down with it.
func (p *Pool) dispatch(ctx context.Context, payload job.Payload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.New(fmt.Sprintf("handler panic: %v\n%s", r, debug.Stack()))
		}
	}()

	return p.dispatcher.Dispatch(ctx, payload)
}

// runReclaimer periodically returns orphaned Active jobs (worker died
// mid-execution) to Waiting so a restart resumes them.
func (p *Pool) runReclaimer(ctx context.Context) {
	interval := p.leaseTimeout / 2
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := p.clock.Now().Add(-p.leaseTimeout)
			reclaimed, err := p.queue.ReclaimExpired(ctx, cutoff)
			if err != nil {
				if ctx.Err() == nil {
					p.logger.Error("lease reclaim failed", "error", err)
				}
				continue
			}
			if reclaimed > 0 {
				p.logger.Warn("reclaimed expired leases", "count", reclaimed)
			}
		}
	}
}

func (p *Pool) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
