package readstore

import (
	"context"

	"mention-relay/internal/infra"
	"mention-relay/internal/pkg/pgconv"
	"mention-relay/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listByRecipientSQL = `
SELECT n.id, n.type, n.recipient_id, n.actor_id, a.username, a.name,
       n.post_id, left(p.content, 140), n.title, n.message, n.metadata,
       n.is_read, n.created_at, n.updated_at
FROM notifications n
LEFT JOIN users a ON a.id = n.actor_id
LEFT JOIN posts p ON p.id = n.post_id
WHERE n.recipient_id = $1
ORDER BY n.created_at DESC, n.id DESC`

const unreadCountSQL = `
SELECT count(*) FROM notifications
WHERE recipient_id = $1 AND is_read = false`

type NotificationReadStore struct {
	pool *pgxpool.Pool
}

func NewNotificationReadStore(pool *pgxpool.Pool) queries.NotificationQueries {
	return &NotificationReadStore{pool: pool}
}

func (s *NotificationReadStore) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*queries.NotificationView, error) {
	rows, err := s.pool.Query(ctx, listByRecipientSQL, recipientID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list notifications", err)
	}
	defer rows.Close()

	var views []*queries.NotificationView
	for rows.Next() {
		var (
			v             queries.NotificationView
			actorID       pgtype.UUID
			actorUsername pgtype.Text
			actorName     pgtype.Text
			postID        pgtype.UUID
			postPreview   pgtype.Text
			createdAt     pgtype.Timestamptz
			updatedAt     pgtype.Timestamptz
		)
		err := rows.Scan(
			&v.ID, &v.Type, &v.RecipientID, &actorID, &actorUsername, &actorName,
			&postID, &postPreview, &v.Title, &v.Message, &v.Metadata,
			&v.IsRead, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification row", err)
		}

		v.ActorID = pgconv.UUIDPtrFromPgtype(actorID)
		v.ActorUsername = pgconv.StringPtrFromPgtype(actorUsername)
		v.ActorName = pgconv.StringPtrFromPgtype(actorName)
		v.PostID = pgconv.UUIDPtrFromPgtype(postID)
		v.PostPreview = pgconv.StringPtrFromPgtype(postPreview)
		v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read notification rows", err)
	}

	return views, nil
}

func (s *NotificationReadStore) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, unreadCountSQL, recipientID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count unread notifications", err)
	}
	return count, nil
}
