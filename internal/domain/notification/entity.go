package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Metadata is a free-form structured payload attached at creation time
// for downstream rendering. It is stored as JSON and never interpreted
// by this subsystem.
type Metadata map[string]any

// Notification is a delivery-addressed event visible to exactly one
// recipient. The recipient is fixed at creation and is the sole
// authorization key for read-state mutation.
type Notification struct {
	id          uuid.UUID
	kind        Type
	recipientID uuid.UUID
	actorID     *uuid.UUID
	postID      *uuid.UUID
	title       string
	message     string
	metadata    Metadata
	isRead      bool
	createdAt   time.Time
	updatedAt   time.Time
}

func New(kind Type, recipientID uuid.UUID, actorID, postID *uuid.UUID, title, message string, metadata Metadata, now time.Time) *Notification {
	return &Notification{
		id:          uuid.New(),
		kind:        kind,
		recipientID: recipientID,
		actorID:     actorID,
		postID:      postID,
		title:       title,
		message:     message,
		metadata:    metadata,
		isRead:      false,
		createdAt:   now,
		updatedAt:   now,
	}
}

// NewMention builds the notification created when authorUsername mentions
// mentionedUsername in a post. Title and message are denormalized display
// strings computed here and never recomputed later.
func NewMention(recipientID, actorID, postID uuid.UUID, authorUsername, mentionedUsername string, now time.Time) *Notification {
	return New(
		TypeMention,
		recipientID,
		&actorID,
		&postID,
		"You were mentioned in a post",
		fmt.Sprintf("%s mentioned you in a post", authorUsername),
		Metadata{
			"postId":            postID.String(),
			"authorId":          actorID.String(),
			"authorUsername":    authorUsername,
			"mentionedUsername": mentionedUsername,
		},
		now,
	)
}

func (n *Notification) ID() uuid.UUID          { return n.id }
func (n *Notification) Type() Type             { return n.kind }
func (n *Notification) RecipientID() uuid.UUID { return n.recipientID }
func (n *Notification) ActorID() *uuid.UUID    { return n.actorID }
func (n *Notification) PostID() *uuid.UUID     { return n.postID }
func (n *Notification) Title() string          { return n.title }
func (n *Notification) Message() string        { return n.message }
func (n *Notification) Metadata() Metadata     { return n.metadata }
func (n *Notification) IsRead() bool           { return n.isRead }
func (n *Notification) CreatedAt() time.Time   { return n.createdAt }
func (n *Notification) UpdatedAt() time.Time   { return n.updatedAt }
