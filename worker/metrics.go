package worker

import "sync/atomic"

// Metrics tracks a pool's job counters. All fields are updated with
// atomic operations; read a consistent-enough snapshot with Stats.
type Metrics struct {
	pending  atomic.Int64
	running  atomic.Int64
	canceled atomic.Int64
	total    atomic.Int64
}

// Stats is a point-in-time snapshot of a pool's counters.
type Stats struct {
	Name        string
	Concurrency int
	Pending     int64
	Running     int64
	Canceled    int64
	Total       int64
}

// Pending returns the number of queued jobs.
func (m *Metrics) Pending() int64 { return m.pending.Load() }

// Running returns the number of jobs currently executing.
func (m *Metrics) Running() int64 { return m.running.Load() }

// Canceled returns the number of jobs that short-circuited: token set
// before the closure ran, closure failure, or discard at shutdown.
func (m *Metrics) Canceled() int64 { return m.canceled.Load() }

// Total returns the number of jobs ever dispatched into the pool.
func (m *Metrics) Total() int64 { return m.total.Load() }

// Metrics returns the pool's live counters.
func (p *Pool) Metrics() *Metrics { return &p.metrics }

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Name:        p.name,
		Concurrency: p.Concurrency(),
		Pending:     p.metrics.Pending(),
		Running:     p.metrics.Running(),
		Canceled:    p.metrics.Canceled(),
		Total:       p.metrics.Total(),
	}
}
