package repository

import (
	"context"
	"encoding/json"

	"mention-relay/internal/domain/notification"
	"mention-relay/internal/infra"
	"mention-relay/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createNotificationSQL = `
INSERT INTO notifications (id, type, recipient_id, actor_id, post_id, title, message, metadata, is_read, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// The recipient guard doubles as the authorization check: a requester who
// does not own the row updates nothing and learns nothing.
const markReadSQL = `
UPDATE notifications SET is_read = true, updated_at = now()
WHERE id = $1 AND recipient_id = $2 AND is_read = false`

const markAllReadSQL = `
UPDATE notifications SET is_read = true, updated_at = now()
WHERE recipient_id = $1 AND is_read = false`

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) shared.NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	metadata, err := json.Marshal(n.Metadata())
	if err != nil {
		return infra.WrapRepoErr("failed to marshal notification metadata", err)
	}

	_, err = r.pool.Exec(ctx, createNotificationSQL,
		n.ID(),
		n.Type().String(),
		n.RecipientID(),
		n.ActorID(),
		n.PostID(),
		n.Title(),
		n.Message(),
		metadata,
		n.IsRead(),
		n.CreatedAt(),
		n.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification", err)
	}

	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, requesterID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, markReadSQL, notificationID, requesterID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark notification read", err)
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, markAllReadSQL, recipientID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark all notifications read", err)
	}
	return tag.RowsAffected(), nil
}
