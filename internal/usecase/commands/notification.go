package commands

import (
	"context"

	"mention-relay/internal/usecase/shared"

	"github.com/google/uuid"
)

// NotificationCommands is the read-state mutation surface. Affected
// counts of zero mean "nothing to do" (missing, someone else's, or
// already read); ownership mismatches are deliberately indistinguishable
// from missing rows so existence never leaks.
type NotificationCommands interface {
	MarkRead(ctx context.Context, notificationID, requesterID uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type notificationCommandsImpl struct {
	notifications shared.NotificationRepository
}

func NewNotificationCommands(notifications shared.NotificationRepository) NotificationCommands {
	return &notificationCommandsImpl{notifications: notifications}
}

func (uc *notificationCommandsImpl) MarkRead(ctx context.Context, notificationID, requesterID uuid.UUID) (int64, error) {
	return uc.notifications.MarkRead(ctx, notificationID, requesterID)
}

func (uc *notificationCommandsImpl) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return uc.notifications.MarkAllRead(ctx, recipientID)
}
