package response

import (
	"encoding/json"

	"mention-relay/internal/usecase/queries"
)

type NotificationResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	ActorID       *string         `json:"actor_id,omitempty"`
	ActorUsername *string         `json:"actor_username,omitempty"`
	ActorName     *string         `json:"actor_name,omitempty"`
	PostID        *string         `json:"post_id,omitempty"`
	PostPreview   *string         `json:"post_preview,omitempty"`
	Title         string          `json:"title"`
	Message       string          `json:"message"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	IsRead        bool            `json:"is_read"`
	CreatedAt     int64           `json:"created_at"`
	UpdatedAt     int64           `json:"updated_at"`
}

func FromNotificationView(v *queries.NotificationView) *NotificationResponse {
	resp := &NotificationResponse{
		ID:            v.ID.String(),
		Type:          v.Type,
		ActorUsername: v.ActorUsername,
		ActorName:     v.ActorName,
		PostPreview:   v.PostPreview,
		Title:         v.Title,
		Message:       v.Message,
		Metadata:      v.Metadata,
		IsRead:        v.IsRead,
		CreatedAt:     v.CreatedAt.Unix(),
		UpdatedAt:     v.UpdatedAt.Unix(),
	}

	if v.ActorID != nil {
		s := v.ActorID.String()
		resp.ActorID = &s
	}
	if v.PostID != nil {
		s := v.PostID.String()
		resp.PostID = &s
	}

	return resp
}

func FromNotificationList(items []*queries.NotificationView) []*NotificationResponse {
	res := make([]*NotificationResponse, len(items))
	for i, it := range items {
		res[i] = FromNotificationView(it)
	}
	return res
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type AffectedCountResponse struct {
	Affected int64 `json:"affected"`
}
