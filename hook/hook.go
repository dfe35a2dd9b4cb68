// Package hook defines the lifecycle hook system for spool.
// Hooks are notified of scheduling events (job queued, started,
// completed, canceled, pool shutdown) and can react to them — logging,
// metrics, tracing, etc.
//
// Each lifecycle event is a separate interface so hooks opt in only to
// the events they care about.
package hook

import (
	"context"
	"time"

	"github.com/xraph/spool/job"
)

// Hook is the base interface all hooks must implement.
type Hook interface {
	// Name returns a unique human-readable name for the hook.
	Name() string
}

// JobQueued is called after a job is pushed into a pool's queue.
type JobQueued interface {
	OnJobQueued(ctx context.Context, pool string, j *job.Job) error
}

// JobStarted is called when a worker begins executing a job.
type JobStarted interface {
	OnJobStarted(ctx context.Context, pool string, j *job.Job) error
}

// JobCompleted is called after a job's thunk ran to completion.
type JobCompleted interface {
	OnJobCompleted(ctx context.Context, pool string, j *job.Job, elapsed time.Duration) error
}

// JobCanceled is called when a job short-circuits: its token was set
// before the closure ran, its closure failed, or it was discarded at
// shutdown.
type JobCanceled interface {
	OnJobCanceled(ctx context.Context, pool string, j *job.Job) error
}

// PoolShutdown is called when a pool finishes shutting down.
type PoolShutdown interface {
	OnPoolShutdown(ctx context.Context, pool string) error
}
