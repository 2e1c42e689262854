package scheduler

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

var (
	pollInterval    = 15 * time.Second
	maxPollInterval = 5 * time.Minute
)

// WaitAll polls q until none of ids remain in the queue, with exponential
// backoff between polls, giving up after timeout. It returns nil once every
// tracked job has reached a terminal state; it does not distinguish success
// from failure of the jobs themselves, which the aggregation pass discovers
// through missing output files.
func WaitAll(ctx context.Context, q StatusQuerier, ids []JobID, timeout time.Duration) error {
	if len(ids) == 0 {
		return nil
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = pollInterval
	policy.MaxInterval = maxPollInterval
	policy.MaxElapsedTime = timeout

	op := func() error {
		pending, err := q.Pending(ctx, ids)
		if err != nil {
			// Status queries are retried; only the deadline is terminal.
			log.Error.Printf("job status query: %v", err)
			return err
		}
		if pending > 0 {
			log.Printf("waiting on %d of %d submitted jobs", pending, len(ids))
			return errors.Errorf("%d jobs still pending", pending)
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(policy, ctx))
}
