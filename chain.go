package spool

import (
	"context"

	"github.com/xraph/spool/job"
)

// Then builds a continuation: when f resolves, fn is dispatched with
// the resolved value and a fresh cancel token, and the returned future
// tracks fn's result. The continuation runs on the antecedent's pool
// unless the context overrides it; the context may also re-target
// group and priority per stage.
//
// If the antecedent is canceled — or the continuation's own token is
// set before it runs — fn never runs and the returned future settles
// as canceled, so cancellation short-circuits whole chains without
// partial execution.
//
// Then never blocks a worker on the antecedent: the continuation job is
// created and enqueued by whichever goroutine performs the antecedent's
// resolution, or by the caller of Then if the antecedent has already
// settled.
func Then[T, U any](f *Future[T], fn func(T, *Token) (U, error), ctxs ...Context) *Future[U] {
	c := ctxOf(ctxs)
	if c.Pool == nil {
		c.Pool = f.s.pool
	}
	p := targetPool(c)

	s2 := newState[U](c.Pin, p)
	f.s.onResolve(func(v T, canceled bool) {
		if canceled || s2.token.Canceled() {
			s2.cancel()
			return
		}
		thunk := resultThunk(s2, func(t *Token) (U, error) {
			return fn(v, t)
		})
		p.Dispatch(buildJob(c, s2, thunk))
	})

	return &Future[U]{s: s2}
}

// ThenDo builds a fire-and-forget continuation: when f resolves, fn is
// dispatched with the resolved value. If the antecedent is canceled,
// fn never runs.
func ThenDo[T any](f *Future[T], fn func(T), ctxs ...Context) {
	c := ctxOf(ctxs)
	if c.Pool == nil {
		c.Pool = f.s.pool
	}
	p := targetPool(c)

	f.s.onResolve(func(v T, canceled bool) {
		if canceled {
			return
		}
		j := job.New(func(_ context.Context) error {
			fn(v)
			return nil
		}, jobOpts(c)...)
		p.Dispatch(j)
	})
}
