//go:build unit

package job_test

import (
	"testing"
	"time"

	"mention-relay/internal/domain/job"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicyNextDelay(t *testing.T) {
	p := job.RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second}

	// delay before attempt k is base * 2^(k-2), i.e. NextDelay(failed attempts)
	assert.Equal(t, 2*time.Second, p.NextDelay(1))
	assert.Equal(t, 4*time.Second, p.NextDelay(2))
	assert.Equal(t, 8*time.Second, p.NextDelay(3))

	// defensive clamp for nonsense input
	assert.Equal(t, 2*time.Second, p.NextDelay(0))
}

func TestPolicyFor(t *testing.T) {
	mentions := job.PolicyFor(job.KindProcessMentions)
	assert.Equal(t, int32(3), mentions.MaxAttempts)
	assert.Equal(t, 2*time.Second, mentions.BaseDelay)

	email := job.PolicyFor(job.KindSendEmail)
	assert.Equal(t, int32(3), email.MaxAttempts)
	assert.Equal(t, 5*time.Second, email.BaseDelay)
}

func TestStateTerminal(t *testing.T) {
	assert.False(t, job.StateWaiting.Terminal())
	assert.False(t, job.StateActive.Terminal())
	assert.True(t, job.StateCompleted.Terminal())
	assert.True(t, job.StateFailed.Terminal())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := job.ProcessMentionsPayload{
		PostID:         uuid.New(),
		Content:        "hi @bob",
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
	}

	raw, err := job.Encode(original)
	require.NoError(t, err)

	decoded, err := job.Decode(job.KindProcessMentions, raw)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := job.Decode(job.Kind("resize_avatar"), []byte(`{}`))
	assert.ErrorIs(t, err, job.ErrUnknownKind)
}
