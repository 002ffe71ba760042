package queries

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationView is the read model for the notification UI: the stored
// row joined with actor and post summaries for display.
type NotificationView struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	RecipientID   uuid.UUID       `json:"recipient_id"`
	ActorID       *uuid.UUID      `json:"actor_id,omitempty"`
	ActorUsername *string         `json:"actor_username,omitempty"`
	ActorName     *string         `json:"actor_name,omitempty"`
	PostID        *uuid.UUID      `json:"post_id,omitempty"`
	PostPreview   *string         `json:"post_preview,omitempty"`
	Title         string          `json:"title"`
	Message       string          `json:"message"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	IsRead        bool            `json:"is_read"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type NotificationQueries interface {
	// ListByRecipient returns the recipient's notifications newest-first.
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*NotificationView, error)
	// UnreadCount is always derived from rows, never stored.
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
}
