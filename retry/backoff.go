// Package retry implements re-dispatch with backoff as a client-level
// policy on top of the scheduler. The core never retries a job; this
// package re-dispatches failed closures, waiting out delays on a timer
// rather than a worker.
package retry

import (
	"math/rand/v2"
	"time"
)

// Strategy computes the delay before retry attempt n (1-indexed).
// Attempt 1 is the first retry after the initial failure.
type Strategy func(attempt int) time.Duration

// Jitter selects how a computed backoff delay is randomized. Jitter
// spreads out the retries of jobs that failed together, so a flaky
// downstream is not hit by a synchronized burst.
type Jitter int

const (
	// NoJitter uses the computed delay as-is.
	NoJitter Jitter = iota

	// FullJitter draws uniformly from [0, delay].
	FullJitter

	// HalfJitter draws uniformly from [delay/2, delay], trading some
	// spread for a guaranteed minimum wait.
	HalfJitter
)

// Fixed waits the same interval before every retry.
func Fixed(interval time.Duration) Strategy {
	return func(int) time.Duration { return interval }
}

// Backoff doubles the delay on every attempt, starting at initial and
// capped at limit (limit <= 0 means uncapped), then applies the jitter
// mode to the result.
func Backoff(initial, limit time.Duration, jitter Jitter) Strategy {
	if initial <= 0 {
		initial = time.Millisecond
	}
	return func(attempt int) time.Duration {
		d := initial
		for i := 1; i < attempt; i++ {
			if limit > 0 && d >= limit {
				break
			}
			d *= 2
		}
		if limit > 0 && d > limit {
			d = limit
		}

		switch jitter {
		case FullJitter:
			d = time.Duration(rand.Int64N(int64(d) + 1))
		case HalfJitter:
			half := d / 2
			d = half + time.Duration(rand.Int64N(int64(half)+1))
		}
		return d
	}
}

// Default is the strategy Result falls back on: full-jitter backoff
// from 100ms up to 5s.
func Default() Strategy {
	return Backoff(100*time.Millisecond, 5*time.Second, FullJitter)
}
