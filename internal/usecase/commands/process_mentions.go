package commands

import (
	"context"
	"log/slog"

	"mention-relay/internal/domain/job"
	"mention-relay/internal/domain/mention"
	"mention-relay/internal/domain/notification"
	"mention-relay/internal/pkg/clock"
	"mention-relay/internal/usecase/shared"
)

// ProcessMentionsResult summarizes one fan-out run for logging and
// diagnostics.
type ProcessMentionsResult struct {
	MentionsFound        int
	ValidUsers           int
	NotificationsCreated int
}

// MentionFanout turns one created post into zero or more MENTION
// notifications. Safe to re-run: a retry repeats the whole loop (see
// DESIGN.md on duplicate notifications after partial failure).
type MentionFanout interface {
	Handle(ctx context.Context, p job.ProcessMentionsPayload) (*ProcessMentionsResult, error)
}

type mentionFanoutImpl struct {
	users         shared.IdentityResolver
	notifications shared.NotificationRepository
	producer      Producer
	clock         clock.Clock
	emailFanout   bool
}

func NewMentionFanout(
	users shared.IdentityResolver,
	notifications shared.NotificationRepository,
	producer Producer,
	clk clock.Clock,
	emailFanout bool,
) MentionFanout {
	return &mentionFanoutImpl{
		users:         users,
		notifications: notifications,
		producer:      producer,
		clock:         clk,
		emailFanout:   emailFanout,
	}
}

func (h *mentionFanoutImpl) Handle(ctx context.Context, p job.ProcessMentionsPayload) (*ProcessMentionsResult, error) {
	// Re-extract from the stored content rather than trusting whatever the
	// submitter counted; the payload is the single source of truth.
	handles := mention.Extract(p.Content)
	result := &ProcessMentionsResult{MentionsFound: len(handles)}
	if len(handles) == 0 {
		return result, nil
	}

	users, err := h.users.ResolveByUsernames(ctx, mention.UniqueHandles(handles))
	if err != nil {
		return nil, err
	}
	result.ValidUsers = len(users)

	now := h.clock.Now()
	for _, u := range users {
		if u.ID == p.AuthorID {
			// No self-notification when the author mentions their own handle.
			continue
		}

		n := notification.NewMention(u.ID, p.AuthorID, p.PostID, p.AuthorUsername, u.Username, now)
		if err := h.notifications.Create(ctx, n); err != nil {
			// Abort and let the queue retry; already-created notifications
			// stay (partial completion is accepted upstream behavior).
			return nil, err
		}
		result.NotificationsCreated++

		h.enqueueEmail(ctx, n, u)
	}

	return result, nil
}

// enqueueEmail is best-effort: a failed submission never fails the
// mention job, the recipient just misses the email copy.
func (h *mentionFanoutImpl) enqueueEmail(ctx context.Context, n *notification.Notification, u shared.UserSnapshot) {
	if !h.emailFanout || u.Email == "" {
		return
	}

	_, err := h.producer.Enqueue(ctx, job.SendEmailPayload{
		NotificationID:   n.ID(),
		RecipientEmail:   u.Email,
		NotificationType: n.Type(),
	})
	if err != nil {
		slog.Warn("failed to enqueue email notification",
			"notification_id", n.ID(),
			"recipient_id", u.ID,
			"error", err)
	}
}
