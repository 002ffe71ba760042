//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mention-relay/internal/domain/job"
	"mention-relay/internal/domain/notification"
	"mention-relay/internal/pkg/clock"
	"mention-relay/internal/usecase/commands"
	"mention-relay/internal/usecase/shared"
	commandsmock "mention-relay/tests/mock/commands"
	sharedmock "mention-relay/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fanoutMocks struct {
	users         *sharedmock.MockIdentityResolver
	notifications *sharedmock.MockNotificationRepository
	producer      *commandsmock.MockProducer
}

func newFanout(t *testing.T, emailFanout bool) (commands.MentionFanout, fanoutMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := fanoutMocks{
		users:         sharedmock.NewMockIdentityResolver(ctrl),
		notifications: sharedmock.NewMockNotificationRepository(ctrl),
		producer:      commandsmock.NewMockProducer(ctrl),
	}
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	fanout := commands.NewMentionFanout(m.users, m.notifications, m.producer, clk, emailFanout)
	return fanout, m
}

func snapshot(username string) shared.UserSnapshot {
	return shared.UserSnapshot{
		ID:       uuid.New(),
		Username: username,
		Name:     username + " name",
		Email:    username + "@example.com",
	}
}

func TestMentionFanout_NoMentions(t *testing.T) {
	fanout, _ := newFanout(t, false)

	result, err := fanout.Handle(context.Background(), job.ProcessMentionsPayload{
		PostID:         uuid.New(),
		Content:        "a post without any handles",
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.MentionsFound)
	assert.Equal(t, 0, result.NotificationsCreated)
}

func TestMentionFanout_CreatesNotificationPerValidUser(t *testing.T) {
	fanout, m := newFanout(t, false)

	bob := snapshot("bob")
	carol := snapshot("carol")
	authorID := uuid.New()
	postID := uuid.New()

	// "ghost" does not resolve; only bob and carol come back.
	m.users.EXPECT().
		ResolveByUsernames(gomock.Any(), []string{"bob", "carol", "ghost"}).
		Return([]shared.UserSnapshot{bob, carol}, nil)

	created := make([]*notification.Notification, 0, 2)
	m.notifications.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *notification.Notification) error {
			created = append(created, n)
			return nil
		}).
		Times(2)

	result, err := fanout.Handle(context.Background(), job.ProcessMentionsPayload{
		PostID:         postID,
		Content:        "hey @bob and @carol, have you met @ghost?",
		AuthorID:       authorID,
		AuthorUsername: "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.MentionsFound)
	assert.Equal(t, 2, result.ValidUsers)
	assert.Equal(t, 2, result.NotificationsCreated)

	require.Len(t, created, 2)
	first := created[0]
	assert.Equal(t, bob.ID, first.RecipientID())
	assert.Equal(t, notification.TypeMention, first.Type())
	require.NotNil(t, first.ActorID())
	assert.Equal(t, authorID, *first.ActorID())
	require.NotNil(t, first.PostID())
	assert.Equal(t, postID, *first.PostID())
	assert.Equal(t, "alice mentioned you in a post", first.Message())
}

func TestMentionFanout_SkipsSelfMention(t *testing.T) {
	fanout, m := newFanout(t, false)

	alice := snapshot("alice")
	bob := snapshot("bob")

	m.users.EXPECT().
		ResolveByUsernames(gomock.Any(), []string{"alice", "bob"}).
		Return([]shared.UserSnapshot{alice, bob}, nil)

	// Only bob gets a notification even though alice resolved.
	m.notifications.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *notification.Notification) error {
			assert.Equal(t, bob.ID, n.RecipientID())
			return nil
		})

	result, err := fanout.Handle(context.Background(), job.ProcessMentionsPayload{
		PostID:         uuid.New(),
		Content:        "note to @alice myself and @bob",
		AuthorID:       alice.ID,
		AuthorUsername: "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.ValidUsers)
	assert.Equal(t, 1, result.NotificationsCreated)
}

func TestMentionFanout_DeduplicatesRepeatedHandles(t *testing.T) {
	fanout, m := newFanout(t, false)

	bob := snapshot("bob")

	m.users.EXPECT().
		ResolveByUsernames(gomock.Any(), []string{"bob"}).
		Return([]shared.UserSnapshot{bob}, nil)
	m.notifications.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil)

	result, err := fanout.Handle(context.Background(), job.ProcessMentionsPayload{
		PostID:         uuid.New(),
		Content:        "@bob @bob @bob",
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.MentionsFound)
	assert.Equal(t, 1, result.NotificationsCreated)
}

func TestMentionFanout_ResolverErrorPropagates(t *testing.T) {
	fanout, m := newFanout(t, false)

	m.users.EXPECT().
		ResolveByUsernames(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	_, err := fanout.Handle(context.Background(), job.ProcessMentionsPayload{
		PostID:         uuid.New(),
		Content:        "ping @bob",
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
	})

	require.Error(t, err)
}

func TestMentionFanout_AbortsOnCreateError(t *testing.T) {
	fanout, m := newFanout(t, false)

	bob := snapshot("bob")
	carol := snapshot("carol")

	m.users.EXPECT().
		ResolveByUsernames(gomock.Any(), gomock.Any()).
		Return([]shared.UserSnapshot{bob, carol}, nil)

	// First create succeeds, second fails; the run aborts without touching
	// anything else and the error propagates for the queue to retry.
	gomock.InOrder(
		m.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
		m.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed")),
	)

	_, err := fanout.Handle(context.Background(), job.ProcessMentionsPayload{
		PostID:         uuid.New(),
		Content:        "@bob @carol",
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
	})

	require.Error(t, err)
}

func TestMentionFanout_EnqueuesEmailWhenEnabled(t *testing.T) {
	fanout, m := newFanout(t, true)

	bob := snapshot("bob")

	m.users.EXPECT().
		ResolveByUsernames(gomock.Any(), gomock.Any()).
		Return([]shared.UserSnapshot{bob}, nil)
	m.notifications.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil)
	m.producer.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p job.Payload) (*commands.JobHandle, error) {
			email, ok := p.(job.SendEmailPayload)
			require.True(t, ok)
			assert.Equal(t, bob.Email, email.RecipientEmail)
			assert.Equal(t, notification.TypeMention, email.NotificationType)
			return &commands.JobHandle{JobID: uuid.New(), Kind: job.KindSendEmail}, nil
		})

	result, err := fanout.Handle(context.Background(), job.ProcessMentionsPayload{
		PostID:         uuid.New(),
		Content:        "hello @bob",
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.NotificationsCreated)
}

func TestMentionFanout_EmailSubmitFailureDoesNotFailJob(t *testing.T) {
	fanout, m := newFanout(t, true)

	bob := snapshot("bob")

	m.users.EXPECT().
		ResolveByUsernames(gomock.Any(), gomock.Any()).
		Return([]shared.UserSnapshot{bob}, nil)
	m.notifications.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil)
	m.producer.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("queue down"))

	result, err := fanout.Handle(context.Background(), job.ProcessMentionsPayload{
		PostID:         uuid.New(),
		Content:        "hello @bob",
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.NotificationsCreated)
}

func TestMentionFanout_SkipsEmailForUserWithoutAddress(t *testing.T) {
	fanout, m := newFanout(t, true)

	bob := snapshot("bob")
	bob.Email = ""

	m.users.EXPECT().
		ResolveByUsernames(gomock.Any(), gomock.Any()).
		Return([]shared.UserSnapshot{bob}, nil)
	m.notifications.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil)
	// No producer.Enqueue expectation: it must not be called.

	_, err := fanout.Handle(context.Background(), job.ProcessMentionsPayload{
		PostID:         uuid.New(),
		Content:        "hello @bob",
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
	})

	require.NoError(t, err)
}
