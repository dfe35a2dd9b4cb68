// Package job defines the unit of deferred work handled by worker pools.
//
// A Job pairs a normalized thunk with scheduling metadata: a dynamic
// priority evaluator, an optional group, and abort wiring used when the
// job is discarded without running. The dispatch facade in the root
// package builds Jobs from user closures of various shapes; pools and
// queues only ever see this one type.
package job

import (
	"context"
	"errors"

	"github.com/xraph/spool/group"
	"github.com/xraph/spool/id"
)

// ErrCanceled is the outcome of a job whose cancel token was set before
// the user closure ran. It marks a normal short-circuit, not a worker
// fault; a failed closure yields a different error.
var ErrCanceled = errors.New("spool: job canceled")

// Job is a captured unit of work plus scheduling metadata.
//
// Run is the normalized thunk: it checks the job's cancel token, invokes
// the user closure, and resolves the job's promise. It returns nil when
// the closure executed, ErrCanceled when the job short-circuited, and
// any other error for a contained closure failure.
//
// Cancel sets the job's cancel token (nil for fire-and-forget jobs,
// which have no token). Abort cancels the token and resolves the
// promise as canceled without running the closure; pools call it when
// discarding queued jobs at shutdown. Neither touches the group: the
// owner of the job performs exactly one group release per job.
type Job struct {
	ID       id.ID
	Name     string
	Priority func() float64
	Group    *group.Group
	Run      func(ctx context.Context) error
	Cancel   func()
	Abort    func()
}

// Option configures a Job at construction.
type Option func(*Job)

// WithName sets a human-readable display name used in logs and hooks.
func WithName(name string) Option {
	return func(j *Job) { j.Name = name }
}

// WithPriority sets the dynamic priority evaluator. The queue calls it
// every time it selects the next job, so it may return different values
// over time. Unset means constant priority 0.
func WithPriority(fn func() float64) Option {
	return func(j *Job) { j.Priority = fn }
}

// WithGroup attaches the job to a group barrier.
func WithGroup(g *group.Group) Option {
	return func(j *Job) { j.Group = g }
}

// New creates a Job around a normalized thunk.
func New(run func(ctx context.Context) error, opts ...Option) *Job {
	j := &Job{
		ID:  id.NewJobID(),
		Run: run,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// PriorityValue evaluates the job's current priority, defaulting to 0
// when no evaluator is set.
func (j *Job) PriorityValue() float64 {
	if j.Priority == nil {
		return 0
	}
	return j.Priority()
}
