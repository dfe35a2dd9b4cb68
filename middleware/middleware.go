// Package middleware provides composable middleware for job execution.
// Middleware wraps the thunk invocation inside a worker and can modify
// execution (recover from panics, log, time, etc.).
package middleware

import (
	"context"

	"github.com/xraph/spool/job"
)

// Handler is the terminal function that executes the job's thunk.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic. It receives the
// job's context, the job being executed, and the next handler to call.
// Middleware MUST call next to continue the chain (unless
// short-circuiting on error).
type Middleware func(ctx context.Context, j *job.Job, next Handler) error

// Chain merges middleware into one. Merging is pairwise and happens
// once, at the Chain call, so invoking the result costs no per-job
// assembly; pools build their chain a single time at construction.
// The first middleware in the list is the outermost wrapper: with
// Chain(a, b), a runs first and decides whether b (and eventually the
// thunk) runs at all.
func Chain(mws ...Middleware) Middleware {
	if len(mws) == 0 {
		return func(ctx context.Context, _ *job.Job, next Handler) error {
			return next(ctx)
		}
	}
	merged := mws[0]
	for _, mw := range mws[1:] {
		merged = nest(merged, mw)
	}
	return merged
}

// nest returns a middleware that runs outer with inner as its
// continuation toward the thunk.
func nest(outer, inner Middleware) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) error {
		return outer(ctx, j, func(ctx context.Context) error {
			return inner(ctx, j, next)
		})
	}
}
