package queue

import "time"

// RetryPolicy is the application-level retry schedule for failed
// deliveries. Delays are indexed by the retry count at failure time,
// so the first failure waits Delays[0], the second Delays[1], and so
// on. Once the retry count reaches MaxRetries the schedule is
// finalized instead of retried.
type RetryPolicy struct {
	MaxRetries int
	Delays     []time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		Delays: []time.Duration{
			5 * time.Minute,
			15 * time.Minute,
			60 * time.Minute,
		},
	}
}

func (p RetryPolicy) Exhausted(retryCount int) bool {
	return retryCount >= p.MaxRetries
}

func (p RetryPolicy) Delay(retryCount int) time.Duration {
	if len(p.Delays) == 0 {
		return 5 * time.Minute
	}
	if retryCount < 0 {
		retryCount = 0
	}
	if retryCount >= len(p.Delays) {
		return p.Delays[len(p.Delays)-1]
	}
	return p.Delays[retryCount]
}
