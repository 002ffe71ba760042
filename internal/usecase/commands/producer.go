package commands

import (
	"context"

	"mention-relay/internal/domain/job"
	"mention-relay/internal/pkg/errs"
	"mention-relay/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrSubmitFailed = errs.New("failed to submit job")

// JobHandle is what the caller gets back from Enqueue. It is evidence of
// submission, not of delivery; the pipeline is best-effort from the
// caller's point of view.
type JobHandle struct {
	JobID uuid.UUID
	Kind  job.Kind
}

// Producer submits jobs to the queue. Content-authoring calls this after
// persisting a post and must not fail the post on a submission error --
// log and move on.
type Producer interface {
	Enqueue(ctx context.Context, p job.Payload) (*JobHandle, error)
}

type producerImpl struct {
	queue shared.Queue
}

func NewProducer(queue shared.Queue) Producer {
	return &producerImpl{queue: queue}
}

func (pr *producerImpl) Enqueue(ctx context.Context, p job.Payload) (*JobHandle, error) {
	kind := p.Kind()

	jobID, err := pr.queue.Submit(ctx, p, job.PolicyFor(kind))
	if err != nil {
		return nil, errs.Mark(err, ErrSubmitFailed)
	}

	return &JobHandle{JobID: jobID, Kind: kind}, nil
}
