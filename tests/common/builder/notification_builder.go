//go:build unit || e2e

package builder

import (
	"encoding/json"
	"time"

	"mention-relay/internal/domain/notification"
	"mention-relay/internal/usecase/queries"

	"github.com/google/uuid"
)

type NotificationBuilder struct {
	id          uuid.UUID
	kind        string
	recipientID uuid.UUID
	actorID     uuid.UUID
	postID      uuid.UUID
	title       string
	message     string
	isRead      bool
	createdAt   time.Time
}

func NewNotificationBuilder() *NotificationBuilder {
	return &NotificationBuilder{
		id:          uuid.New(),
		kind:        notification.TypeMention.String(),
		recipientID: uuid.New(),
		actorID:     uuid.New(),
		postID:      uuid.New(),
		title:       "You were mentioned in a post",
		message:     "alice mentioned you in a post",
		isRead:      false,
		createdAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func (b *NotificationBuilder) WithID(id uuid.UUID) *NotificationBuilder {
	b.id = id
	return b
}

func (b *NotificationBuilder) WithRecipient(id uuid.UUID) *NotificationBuilder {
	b.recipientID = id
	return b
}

func (b *NotificationBuilder) WithRead(read bool) *NotificationBuilder {
	b.isRead = read
	return b
}

func (b *NotificationBuilder) WithCreatedAt(t time.Time) *NotificationBuilder {
	b.createdAt = t
	return b
}

func (b *NotificationBuilder) BuildView() *queries.NotificationView {
	actorID := b.actorID
	postID := b.postID
	actorUsername := "alice"
	actorName := "Alice Smith"
	preview := "hi @bob"

	return &queries.NotificationView{
		ID:            b.id,
		Type:          b.kind,
		RecipientID:   b.recipientID,
		ActorID:       &actorID,
		ActorUsername: &actorUsername,
		ActorName:     &actorName,
		PostID:        &postID,
		PostPreview:   &preview,
		Title:         b.title,
		Message:       b.message,
		Metadata:      json.RawMessage(`{"postId":"` + b.postID.String() + `"}`),
		IsRead:        b.isRead,
		CreatedAt:     b.createdAt,
		UpdatedAt:     b.createdAt,
	}
}

func (b *NotificationBuilder) BuildDomain(now time.Time) *notification.Notification {
	return notification.NewMention(b.recipientID, b.actorID, b.postID, "alice", "bob", now)
}
