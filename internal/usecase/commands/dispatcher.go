package commands

import (
	"context"

	"mention-relay/internal/domain/job"
	"mention-relay/internal/pkg/errs"
)

// Dispatcher routes a decoded payload to its handler. The type switch is
// exhaustive over the sealed payload set; the default arm only fires for
// a variant added without a handler, which is a permanent per-job fault.
type Dispatcher interface {
	Dispatch(ctx context.Context, p job.Payload) error
}

type dispatcherImpl struct {
	mentions MentionFanout
	email    EmailDelivery
}

func NewDispatcher(mentions MentionFanout, email EmailDelivery) Dispatcher {
	return &dispatcherImpl{mentions: mentions, email: email}
}

func (d *dispatcherImpl) Dispatch(ctx context.Context, p job.Payload) error {
	switch payload := p.(type) {
	case job.ProcessMentionsPayload:
		_, err := d.mentions.Handle(ctx, payload)
		return err
	case job.SendEmailPayload:
		return d.email.Handle(ctx, payload)
	default:
		return errs.Mark(errs.New("no handler for job kind "+p.Kind().String()), job.ErrUnknownKind)
	}
}
