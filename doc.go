// Package spool is a lightweight in-process job scheduler: asynchronous
// task dispatch onto pools of worker goroutines, future/promise result
// propagation with chaining, cooperative cancellation, group barriers,
// and dynamic prioritization.
//
// Spool is a library, not a service. Dispatch a closure and get back a
// future:
//
//	f := spool.DispatchResult(func(t *spool.Token) (int, error) {
//	    return 42, nil
//	})
//	v := f.Join() // 42
//
// Chain dependent stages without ever blocking a worker:
//
//	doubled := spool.Then(f, func(v int, t *spool.Token) (int, error) {
//	    return v * 2, nil
//	})
//
// Group a batch and wait for all of it:
//
//	g := group.New()
//	ctx := spool.Context{Group: g}
//	for _, item := range items {
//	    spool.Dispatch(func() { process(item) }, ctx)
//	}
//	g.Join()
//
// # Architecture
//
// Pools live in a process-wide registry ([Get], [Default]) and drain a
// priority queue whose job priorities are re-evaluated at every pop, so
// a priority function may read time-varying state (a camera frustum, a
// load metric) without re-enqueueing. Cancellation is cooperative: a
// shared [Token] is set, never a forced interrupt. Lifecycle hooks and
// execution middleware observe and wrap every job.
//
// Call [Shutdown] at process exit: queued jobs are discarded (their
// futures resolve as canceled), running jobs are awaited.
package spool
