// Package group provides a counter-based barrier for joining a batch of
// dispatched jobs.
//
// A Group counts outstanding jobs: the dispatcher increments the counter
// before a job is enqueued and the worker decrements it exactly once when
// the job completes, whether it succeeded, failed, or was canceled.
// Join blocks until the counter reaches zero. A single group may collect
// jobs from any number of pools, and it may be reused after Join returns.
package group

import (
	"context"
	"sync"
)

// Group is a counter-based barrier. The zero value is not usable;
// create groups with New.
type Group struct {
	mu       sync.Mutex
	cond     *sync.Cond
	count    int
	canceled bool
}

// New creates a group with a zero counter.
func New() *Group {
	g := &Group{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Add increments the outstanding-job counter. Dispatchers call this
// before enqueueing a job into a pool.
func (g *Group) Add() {
	g.mu.Lock()
	g.count++
	g.mu.Unlock()
}

// Done decrements the counter. When it reaches zero all joiners are
// released. The counter never goes below zero.
func (g *Group) Done() {
	g.mu.Lock()
	if g.count > 0 {
		g.count--
	}
	if g.count == 0 {
		g.cond.Broadcast()
	}
	g.mu.Unlock()
}

// Pending returns the current outstanding-job count.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

// Join blocks until the counter reaches zero. It returns immediately if
// the counter is already zero. Multiple goroutines may join concurrently;
// all are released together.
func (g *Group) Join() {
	g.mu.Lock()
	for g.count > 0 {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

// JoinContext blocks until the counter reaches zero or ctx is done.
// It returns nil when the group drained, or the context's error.
func (g *Group) JoinContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.Join()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel marks the group canceled. Workers popping a job attached to a
// canceled group cancel that job's token before invoking it, so jobs
// with a token short-circuit; fire-and-forget jobs carry no token and
// still run. Canceling does not release joiners; the
// counter still drains as the aborted jobs complete.
func (g *Group) Cancel() {
	g.mu.Lock()
	g.canceled = true
	g.mu.Unlock()
}

// Canceled reports whether Cancel has been called. The flag is
// monotonic for the current batch; Reset clears it.
func (g *Group) Canceled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canceled
}

// Reset forces the counter to zero and releases all joiners, clearing
// the canceled flag. Pools never call it: they release a group with one
// Done per discarded job. Reset is for hosts that reuse a group whose
// outstanding jobs will never report back.
func (g *Group) Reset() {
	g.mu.Lock()
	g.count = 0
	g.canceled = false
	g.cond.Broadcast()
	g.mu.Unlock()
}
