//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"mention-relay/internal/domain/job"
	"mention-relay/internal/usecase/commands"
	commandsmock "mention-relay/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDispatcher_RoutesMentionJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	mentions := commandsmock.NewMockMentionFanout(ctrl)
	email := commandsmock.NewMockEmailDelivery(ctrl)
	d := commands.NewDispatcher(mentions, email)

	p := job.ProcessMentionsPayload{PostID: uuid.New(), Content: "@bob", AuthorID: uuid.New(), AuthorUsername: "alice"}
	mentions.EXPECT().Handle(gomock.Any(), p).Return(&commands.ProcessMentionsResult{}, nil)

	require.NoError(t, d.Dispatch(context.Background(), p))
}

func TestDispatcher_RoutesEmailJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	mentions := commandsmock.NewMockMentionFanout(ctrl)
	email := commandsmock.NewMockEmailDelivery(ctrl)
	d := commands.NewDispatcher(mentions, email)

	p := job.SendEmailPayload{NotificationID: uuid.New(), RecipientEmail: "bob@example.com"}
	email.EXPECT().Handle(gomock.Any(), p).Return(nil)

	require.NoError(t, d.Dispatch(context.Background(), p))
}

func TestDispatcher_HandlerErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	mentions := commandsmock.NewMockMentionFanout(ctrl)
	email := commandsmock.NewMockEmailDelivery(ctrl)
	d := commands.NewDispatcher(mentions, email)

	p := job.ProcessMentionsPayload{PostID: uuid.New()}
	mentions.EXPECT().Handle(gomock.Any(), p).Return(nil, errors.New("boom"))

	err := d.Dispatch(context.Background(), p)
	require.Error(t, err)
	assert.False(t, errors.Is(err, job.ErrUnknownKind))
}
