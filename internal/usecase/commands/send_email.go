package commands

import (
	"context"
	"fmt"

	"mention-relay/internal/domain/job"
	"mention-relay/internal/usecase/shared"
)

// EmailDelivery hands a notification off to the email collaborator. A
// transport failure propagates so the queue's retry machinery applies to
// email the same way it does to mention fan-out.
type EmailDelivery interface {
	Handle(ctx context.Context, p job.SendEmailPayload) error
}

type emailDeliveryImpl struct {
	mailer shared.Mailer
}

func NewEmailDelivery(mailer shared.Mailer) EmailDelivery {
	return &emailDeliveryImpl{mailer: mailer}
}

func (h *emailDeliveryImpl) Handle(ctx context.Context, p job.SendEmailPayload) error {
	subject := "You have a new notification"
	text := fmt.Sprintf("You have a new %s notification. Open the app to see it.", p.NotificationType)
	html := fmt.Sprintf("<p>You have a new <strong>%s</strong> notification.</p><p>Open the app to see it.</p>", p.NotificationType)

	return h.mailer.Send(ctx, p.RecipientEmail, subject, text, html)
}
