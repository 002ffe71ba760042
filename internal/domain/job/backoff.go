package job

import "time"

const DefaultMaxAttempts = 3

// RetryPolicy is exponential backoff bounded by MaxAttempts. The delay
// before attempt k (k >= 2) is BaseDelay * 2^(k-2).
type RetryPolicy struct {
	MaxAttempts int32
	BaseDelay   time.Duration
}

// NextDelay returns how long the job must wait after its attempts-th
// failed attempt before it becomes leasable again.
func (p RetryPolicy) NextDelay(attempts int32) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return p.BaseDelay << (attempts - 1)
}

// PolicyFor returns the default retry policy for a job kind. Mention
// fan-out retries faster than email delivery: the mail relay tends to
// need longer to recover than the database.
func PolicyFor(kind Kind) RetryPolicy {
	switch kind {
	case KindSendEmail:
		return RetryPolicy{MaxAttempts: DefaultMaxAttempts, BaseDelay: 5 * time.Second}
	default:
		return RetryPolicy{MaxAttempts: DefaultMaxAttempts, BaseDelay: 2 * time.Second}
	}
}
