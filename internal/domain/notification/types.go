package notification

import "mention-relay/internal/pkg/errs"

var ErrInvalidType = errs.New("invalid notification type")

// Type identifies what triggered a notification. The mention pipeline
// only emits TypeMention; the remaining values are produced by other
// parts of the platform through the same repository.
type Type string

const (
	TypeMention          Type = "MENTION"
	TypeLike             Type = "LIKE"
	TypeFollow           Type = "FOLLOW"
	TypeComment          Type = "COMMENT"
	TypeCourseEnrollment Type = "COURSE_ENROLLMENT"
	TypeCourseCompletion Type = "COURSE_COMPLETION"
)

func NewType(s string) (Type, error) {
	switch Type(s) {
	case TypeMention, TypeLike, TypeFollow, TypeComment, TypeCourseEnrollment, TypeCourseCompletion:
		return Type(s), nil
	default:
		return "", ErrInvalidType
	}
}

func (t Type) String() string { return string(t) }
