package services

import (
	"context"
	"math"
	"time"

	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
)

type RetryPolicy struct {
	MaxAttempts int
	Retryable   func(err error) bool

	MinBackoff time.Duration // default 50ms
	MaxBackoff time.Duration // default 1s
}

// DefaultWriteRetry retries storage errors classified as transient.
var DefaultWriteRetry = RetryPolicy{
	MaxAttempts: 3,
	Retryable:   dataerr.IsRetryable,
	MinBackoff:  50 * time.Millisecond,
	MaxBackoff:  time.Second,
}

// Do runs fn until it succeeds, returns a non-retryable error, or the
// attempts are spent. The last error is returned.
func (r RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := 0
	for {
		attempts++
		err := fn()
		if err == nil {
			return nil
		}
		if !r.shouldRetry(attempts, err) {
			return err
		}
		t := time.NewTimer(r.backoff(attempts))
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
}

func (r RetryPolicy) shouldRetry(attempts int, err error) bool {
	if r.MaxAttempts <= 0 || attempts >= r.MaxAttempts {
		return false
	}
	if r.Retryable == nil {
		return true
	}
	return r.Retryable(err)
}

func (r RetryPolicy) backoff(attempts int) time.Duration {
	minB, maxB := r.MinBackoff, r.MaxBackoff
	if minB <= 0 {
		minB = 50 * time.Millisecond
	}
	if maxB <= 0 {
		maxB = time.Second
	}
	d := time.Duration(float64(minB) * math.Pow(2, float64(attempts-1)))
	if d > maxB {
		d = maxB
	}
	return d
}
