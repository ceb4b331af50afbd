// Package poll implements the condition-polling primitive every waiter in
// this repo is built on: call an operation, inspect the result, sleep and
// retry until the condition holds or the attempt bound is exceeded. All
// the coordinated parties (agent, endorser, ledger) are asynchronous
// writers whose effects become readable only later, so the same
// call-inspect-retry shape repeats through the flows; it lives here once.
package poll

import (
	"context"
	"time"

	"github.com/anchora-network/anchora-orchestrator/agent/apierr"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Policy bounds one polling loop. Worst-case latency is computable from
// it: MaxAttempts*Delay for a fixed delay, or the sum of the doubling
// series when BackoffFactor > 1.
type Policy struct {
	// MaxAttempts is the number of operation calls, never exceeded.
	MaxAttempts int

	// Delay is slept between attempts. With SleepFirst it is also slept
	// before the first attempt.
	Delay time.Duration

	// BackoffFactor multiplies the delay after every attempt. Values
	// <= 1 mean a fixed delay.
	BackoffFactor float64

	// SleepFirst orders the delay before the read instead of after it.
	// Reading immediately after a dependent write races the agent's own
	// record update and can see stale state or a duplicate-record error,
	// so the metadata waiters set this.
	SleepFirst bool
}

func (p Policy) delay(attempt int) time.Duration {
	d := p.Delay
	if p.BackoffFactor > 1 {
		for i := 0; i < attempt; i++ {
			d = time.Duration(float64(d) * p.BackoffFactor)
		}
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Until calls op until pred accepts its result, at most p.MaxAttempts
// times. Operation errors are absorbed as retryable until the bound is
// hit; the last error (or a plain timeout) is returned Timeout-kinded.
// The operation must be safely re-callable.
func Until[T any](
	ctx context.Context,
	p Policy,
	op func(context.Context) (T, error),
	pred func(T) bool,
) (
	result T,
	err error,
) {
	defer err2.Handle(&err)

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if p.SleepFirst {
			try.To(sleep(ctx, p.delay(attempt)))
		}
		r, opErr := op(ctx)
		if opErr == nil && pred(r) {
			return r, nil
		}
		lastErr = opErr
		if opErr != nil {
			glog.V(1).Infof("poll attempt %d/%d: %v",
				attempt+1, p.MaxAttempts, opErr)
		} else {
			glog.V(3).Infof("poll attempt %d/%d: condition not met",
				attempt+1, p.MaxAttempts)
		}
		if !p.SleepFirst && attempt+1 < p.MaxAttempts {
			try.To(sleep(ctx, p.delay(attempt)))
		}
	}
	if lastErr != nil {
		return result, apierr.Wrap(apierr.Timeout, lastErr,
			"condition not met within the attempt bound")
	}
	return result, apierr.Newf(apierr.Timeout,
		"condition not met after %d attempts", p.MaxAttempts)
}

// UntilField is the field-equals variant of Until: field extracts a
// string from the result and the loop runs until it equals want.
func UntilField[T any](
	ctx context.Context,
	p Policy,
	op func(context.Context) (T, error),
	field func(T) string,
	want string,
) (T, error) {
	return Until(ctx, p, op, func(r T) bool { return field(r) == want })
}

// UntilNil retries an operation that only reports success or failure.
// It exists for side-effecting calls that are transiently rejected and
// safe to repeat, retried as a unit together with their follow-up
// verification.
func UntilNil(
	ctx context.Context,
	p Policy,
	op func(context.Context) error,
) error {
	_, err := Until(ctx, p,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, op(ctx)
		},
		func(struct{}) bool { return true })
	return err
}
