package spool

import (
	"context"
	"sync"

	"github.com/xraph/spool/worker"
)

// state is the single-shot result slot shared by a Promise, its
// Futures, and the producing job.
type state[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	value     T
	token     *Token
	resolved  bool
	pin       bool
	refs      int
	pool      *worker.Pool
	callbacks []func(value T, canceled bool)
}

func newState[T any](pin bool, pool *worker.Pool) *state[T] {
	return &state[T]{
		done:  make(chan struct{}),
		token: NewToken(),
		pin:   pin,
		refs:  1,
		pool:  pool,
	}
}

// resolve publishes a value. First writer wins; later calls are no-ops.
// Continuation callbacks run on the resolver's goroutine, after the
// publish, which gives chained jobs a happens-after edge on every write
// the producer made before resolving.
func (s *state[T]) resolve(v T) {
	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return
	}
	s.value = v
	s.resolved = true
	cbs := s.callbacks
	s.callbacks = nil
	close(s.done)
	canceled := s.token.Canceled()
	s.mu.Unlock()

	for _, cb := range cbs {
		cb(v, canceled)
	}
}

// cancel sets the token and, if unresolved, publishes the zero value.
func (s *state[T]) cancel() {
	s.token.Cancel()

	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return
	}
	s.resolved = true
	cbs := s.callbacks
	s.callbacks = nil
	close(s.done)
	s.mu.Unlock()

	var zero T
	for _, cb := range cbs {
		cb(zero, true)
	}
}

// onResolve registers a continuation callback, invoking it inline if
// the state is already settled.
func (s *state[T]) onResolve(cb func(T, bool)) {
	s.mu.Lock()
	if s.resolved {
		v := s.value
		canceled := s.token.Canceled()
		s.mu.Unlock()
		cb(v, canceled)
		return
	}
	s.callbacks = append(s.callbacks, cb)
	s.mu.Unlock()
}

// release drops one future handle reference. When the last handle is
// gone before resolution and the dispatch context was not pinned, the
// job is considered abandoned and its token cancels.
func (s *state[T]) release() {
	s.mu.Lock()
	if s.refs > 0 {
		s.refs--
	}
	abandoned := s.refs == 0 && !s.resolved && !s.pin
	s.mu.Unlock()

	if abandoned {
		s.cancel()
	}
}

// Promise is the write side of a single-shot result channel. The
// producing job resolves it, or user code does for user-promise jobs.
type Promise[T any] struct {
	s *state[T]
}

// NewPromise creates an unresolved promise/future pair detached from
// any job.
func NewPromise[T any]() (*Promise[T], *Future[T]) {
	s := newState[T](false, nil)
	return &Promise[T]{s: s}, &Future[T]{s: s}
}

// Resolve publishes the value and wakes all waiters. The first
// resolution wins; subsequent calls (and calls after Cancel) are
// no-ops.
func (p *Promise[T]) Resolve(v T) { p.s.resolve(v) }

// Cancel settles the promise as canceled: the token is set and waiters
// receive the zero value. A no-op after Resolve, except that the token
// is still set.
func (p *Promise[T]) Cancel() { p.s.cancel() }

// Token returns the cancel token shared with the promise's futures.
func (p *Promise[T]) Token() *Token { return p.s.token }

// Future is a read handle on a Promise. It may be queried, joined, and
// chained any number of times.
type Future[T any] struct {
	s *state[T]
}

// Join blocks until the producer resolves or cancels, then returns the
// value. A canceled future joins to the zero value; check Canceled to
// distinguish. Join on an already-settled future returns immediately,
// always with the same value.
func (f *Future[T]) Join() T {
	<-f.s.done
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.value
}

// JoinContext is Join with a deadline: it returns ctx.Err() if ctx is
// done before the future settles. Clients build timeouts by racing a
// future against a context and canceling the token when it loses.
func (f *Future[T]) JoinContext(ctx context.Context) (T, error) {
	select {
	case <-f.s.done:
		f.s.mu.Lock()
		defer f.s.mu.Unlock()
		return f.s.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Canceled reports the token state without blocking.
func (f *Future[T]) Canceled() bool { return f.s.token.Canceled() }

// Cancel sets the token. The producer observes it cooperatively: a
// queued job will settle as canceled when a worker picks it up; a
// running job decides for itself whether to honor it.
func (f *Future[T]) Cancel() { f.s.token.Cancel() }

// Available reports whether the future has settled (value or
// cancellation).
func (f *Future[T]) Available() bool {
	select {
	case <-f.s.done:
		return true
	default:
		return false
	}
}

// Working reports whether the producer has not yet settled the future.
func (f *Future[T]) Working() bool { return !f.Available() }

// Value returns the current value without blocking: the resolved value
// once available, the zero value before that.
func (f *Future[T]) Value() T {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.value
}

// Clone returns an additional handle on the same future. Each handle
// must be Closed independently for abandonment tracking.
func (f *Future[T]) Clone() *Future[T] {
	f.s.mu.Lock()
	f.s.refs++
	f.s.mu.Unlock()
	return &Future[T]{s: f.s}
}

// Close releases this handle. When the last handle is closed before
// resolution and the dispatch context was not pinned, the job is
// abandoned: its token cancels and the future settles as canceled.
// Close a handle at most once.
func (f *Future[T]) Close() { f.s.release() }
