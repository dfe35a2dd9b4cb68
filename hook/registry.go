package hook

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/spool/job"
)

// Named entry types pair a hook implementation with the hook name
// captured at registration time. This avoids type-asserting back to
// Hook inside the emit methods.
type jobQueuedEntry struct {
	name string
	hook JobQueued
}

type jobStartedEntry struct {
	name string
	hook JobStarted
}

type jobCompletedEntry struct {
	name string
	hook JobCompleted
}

type jobCanceledEntry struct {
	name string
	hook JobCanceled
}

type poolShutdownEntry struct {
	name string
	hook PoolShutdown
}

// Registry holds registered hooks and dispatches lifecycle events to
// them. It type-caches hooks at registration time so emit calls iterate
// only over hooks that implement the relevant event.
//
// Registration is not synchronized: register all hooks before pools
// start emitting.
type Registry struct {
	hooks  []Hook
	logger *slog.Logger

	jobQueued    []jobQueuedEntry
	jobStarted   []jobStartedEntry
	jobCompleted []jobCompletedEntry
	jobCanceled  []jobCanceledEntry
	poolShutdown []poolShutdownEntry
}

// NewRegistry creates a hook registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds a hook and type-asserts it into all applicable event
// caches. Hooks are notified in registration order.
func (r *Registry) Register(h Hook) {
	r.hooks = append(r.hooks, h)
	name := h.Name()

	if e, ok := h.(JobQueued); ok {
		r.jobQueued = append(r.jobQueued, jobQueuedEntry{name, e})
	}
	if e, ok := h.(JobStarted); ok {
		r.jobStarted = append(r.jobStarted, jobStartedEntry{name, e})
	}
	if e, ok := h.(JobCompleted); ok {
		r.jobCompleted = append(r.jobCompleted, jobCompletedEntry{name, e})
	}
	if e, ok := h.(JobCanceled); ok {
		r.jobCanceled = append(r.jobCanceled, jobCanceledEntry{name, e})
	}
	if e, ok := h.(PoolShutdown); ok {
		r.poolShutdown = append(r.poolShutdown, poolShutdownEntry{name, e})
	}
}

// Hooks returns the registered hooks in registration order.
func (r *Registry) Hooks() []Hook { return r.hooks }

func (r *Registry) hookError(event, name string, err error) {
	r.logger.Warn("hook error",
		slog.String("event", event),
		slog.String("hook", name),
		slog.String("error", err.Error()),
	)
}

// EmitJobQueued notifies all JobQueued hooks. Hook errors are logged,
// never propagated: observation must not perturb scheduling.
func (r *Registry) EmitJobQueued(ctx context.Context, pool string, j *job.Job) {
	for _, e := range r.jobQueued {
		if err := e.hook.OnJobQueued(ctx, pool, j); err != nil {
			r.hookError("job_queued", e.name, err)
		}
	}
}

// EmitJobStarted notifies all JobStarted hooks.
func (r *Registry) EmitJobStarted(ctx context.Context, pool string, j *job.Job) {
	for _, e := range r.jobStarted {
		if err := e.hook.OnJobStarted(ctx, pool, j); err != nil {
			r.hookError("job_started", e.name, err)
		}
	}
}

// EmitJobCompleted notifies all JobCompleted hooks.
func (r *Registry) EmitJobCompleted(ctx context.Context, pool string, j *job.Job, elapsed time.Duration) {
	for _, e := range r.jobCompleted {
		if err := e.hook.OnJobCompleted(ctx, pool, j, elapsed); err != nil {
			r.hookError("job_completed", e.name, err)
		}
	}
}

// EmitJobCanceled notifies all JobCanceled hooks.
func (r *Registry) EmitJobCanceled(ctx context.Context, pool string, j *job.Job) {
	for _, e := range r.jobCanceled {
		if err := e.hook.OnJobCanceled(ctx, pool, j); err != nil {
			r.hookError("job_canceled", e.name, err)
		}
	}
}

// EmitPoolShutdown notifies all PoolShutdown hooks.
func (r *Registry) EmitPoolShutdown(ctx context.Context, pool string) {
	for _, e := range r.poolShutdown {
		if err := e.hook.OnPoolShutdown(ctx, pool); err != nil {
			r.hookError("pool_shutdown", e.name, err)
		}
	}
}
