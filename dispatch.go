package spool

import (
	"context"
	"fmt"

	"github.com/xraph/spool/job"
	"github.com/xraph/spool/worker"
)

// Dispatch schedules a fire-and-forget closure. It runs exactly once on
// a worker of the context's pool (the default pool if none is given),
// unless the pool shuts down first.
func Dispatch(fn func(), ctxs ...Context) {
	c := ctxOf(ctxs)
	p := targetPool(c)

	j := job.New(func(_ context.Context) error {
		fn()
		return nil
	}, jobOpts(c)...)

	p.Dispatch(j)
}

// DispatchResult schedules a closure that produces a value and returns
// a future for it. The closure receives the job's cancel token; it may
// ignore it or poll it at convenient points. A closure error is a
// contained failure: the future settles as canceled with the zero
// value, and clients that need failure payloads encode them in T.
func DispatchResult[T any](fn func(*Token) (T, error), ctxs ...Context) *Future[T] {
	c := ctxOf(ctxs)
	p := targetPool(c)
	return dispatchResultInto(p, c, fn)
}

// DispatchPromise schedules a closure that drives its own promise.
// The closure may resolve it synchronously or hand it to other
// machinery to resolve later; the returned future settles whenever the
// promise does.
func DispatchPromise[T any](fn func(*Promise[T]), ctxs ...Context) *Future[T] {
	c := ctxOf(ctxs)
	p := targetPool(c)

	s := newState[T](c.Pin, p)
	run := func(_ context.Context) (err error) {
		if s.token.Canceled() {
			s.cancel()
			return job.ErrCanceled
		}
		defer func() {
			if r := recover(); r != nil {
				s.cancel()
				err = fmt.Errorf("spool: job panicked: %v", r)
			}
		}()
		fn(&Promise[T]{s: s})
		return nil
	}

	p.Dispatch(buildJob(c, s, run))
	return &Future[T]{s: s}
}

// dispatchResultInto wires a value-producing closure into a pool for
// DispatchResult. The chaining functions build their jobs from
// resultThunk and buildJob directly.
func dispatchResultInto[T any](p *worker.Pool, c Context, fn func(*Token) (T, error)) *Future[T] {
	s := newState[T](c.Pin, p)
	p.Dispatch(buildJob(c, s, resultThunk(s, fn)))
	return &Future[T]{s: s}
}

// resultThunk normalizes a value-producing closure to the pool's thunk
// shape: check the token, run the closure, settle the promise — on
// every path, including panic.
func resultThunk[T any](s *state[T], fn func(*Token) (T, error)) func(context.Context) error {
	return func(_ context.Context) (err error) {
		if s.token.Canceled() {
			s.cancel()
			return job.ErrCanceled
		}

		defer func() {
			if r := recover(); r != nil {
				s.cancel()
				err = fmt.Errorf("spool: job panicked: %v", r)
			}
		}()

		v, ferr := fn(s.token)
		if ferr != nil {
			s.cancel()
			return fmt.Errorf("spool: job failed: %w", ferr)
		}
		s.resolve(v)
		return nil
	}
}

func buildJob[T any](c Context, s *state[T], run func(context.Context) error) *job.Job {
	j := job.New(run, jobOpts(c)...)
	j.Cancel = s.token.Cancel
	j.Abort = s.cancel
	return j
}
