package job

import (
	"encoding/json"

	"mention-relay/internal/domain/notification"
	"mention-relay/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrUnknownKind = errs.New("unknown job kind")

// Kind names a job variant on the wire. In-process dispatch goes through
// the typed Payload variants, so the string form only matters at the
// storage boundary.
type Kind string

const (
	KindProcessMentions Kind = "process_mentions"
	KindSendEmail       Kind = "send_email_notification"
)

func (k Kind) String() string { return string(k) }

// Payload is the closed set of job inputs. The unexported marker keeps
// the set sealed to this package so the dispatcher's type switch stays
// exhaustive.
type Payload interface {
	Kind() Kind
	payload()
}

// ProcessMentionsPayload carries everything the mention fan-out needs so
// the handler never has to load the post back.
type ProcessMentionsPayload struct {
	PostID         uuid.UUID `json:"postId"`
	Content        string    `json:"content"`
	AuthorID       uuid.UUID `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
}

func (ProcessMentionsPayload) Kind() Kind { return KindProcessMentions }
func (ProcessMentionsPayload) payload()   {}

type SendEmailPayload struct {
	NotificationID   uuid.UUID         `json:"notificationId"`
	RecipientEmail   string            `json:"recipientEmail"`
	NotificationType notification.Type `json:"notificationType"`
}

func (SendEmailPayload) Kind() Kind { return KindSendEmail }
func (SendEmailPayload) payload()   {}

// Encode marshals a payload for storage.
func Encode(p Payload) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode job payload")
	}
	return raw, nil
}

// Decode rebuilds the typed payload from a stored job row. A kind this
// binary does not know about is reported via ErrUnknownKind; the caller
// treats that as a permanent per-job failure, never a process fault.
func Decode(kind Kind, raw []byte) (Payload, error) {
	switch kind {
	case KindProcessMentions:
		var p ProcessMentionsPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, errs.Wrap(err, "failed to decode process_mentions payload")
		}
		return p, nil
	case KindSendEmail:
		var p SendEmailPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, errs.Wrap(err, "failed to decode send_email_notification payload")
		}
		return p, nil
	default:
		return nil, errs.Mark(errs.New("job kind "+kind.String()), ErrUnknownKind)
	}
}
