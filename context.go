package spool

import (
	"github.com/xraph/spool/group"
	"github.com/xraph/spool/job"
	"github.com/xraph/spool/worker"
)

// Context bundles the dispatch options for a job. The zero value means:
// default pool, no group, constant priority 0, auto-cancel on abandon.
type Context struct {
	// Name is a display name for logs and hooks.
	Name string

	// Pool is the target pool. Nil targets the default pool, except
	// for continuations, which stay on the antecedent's pool.
	Pool *worker.Pool

	// Group, when set, is incremented at dispatch and decremented
	// exactly once when the job completes, fails, or is discarded.
	Group *group.Group

	// Priority is evaluated by the queue every time it selects the
	// next job. Higher runs sooner. Nil means constant 0.
	Priority func() float64

	// Pin disables auto-cancel-on-abandon: the job runs even if every
	// future handle is closed first.
	Pin bool
}

func ctxOf(ctxs []Context) Context {
	if len(ctxs) > 0 {
		return ctxs[0]
	}
	return Context{}
}

// targetPool resolves the pool a context dispatches into.
func targetPool(c Context) *worker.Pool {
	if c.Pool != nil {
		return c.Pool
	}
	return Default()
}

func jobOpts(c Context) []job.Option {
	var opts []job.Option
	if c.Name != "" {
		opts = append(opts, job.WithName(c.Name))
	}
	if c.Priority != nil {
		opts = append(opts, job.WithPriority(c.Priority))
	}
	if c.Group != nil {
		opts = append(opts, job.WithGroup(c.Group))
	}
	return opts
}
