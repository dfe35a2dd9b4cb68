// Package queue provides the pending-job buffer shared by a pool's
// workers.
//
// Jobs are ordered by a dynamic numeric priority: the evaluator attached
// to each job is re-invoked every time a worker selects the next job, so
// priorities may depend on time-varying external state (a camera
// frustum, a load metric) without re-enqueueing. Higher values run
// sooner; ties run in dispatch order.
package queue

import (
	"errors"
	"sync"

	"github.com/xraph/spool/job"
)

// ErrClosed is returned by Push after Close.
var ErrClosed = errors.New("spool: queue closed")

type entry struct {
	j *job.Job
	// seq is the FIFO tie-breaker. The pop-time scan swap-removes
	// entries, so slice order says nothing about dispatch order.
	seq uint64
}

// Queue is a thread-safe priority buffer of pending jobs. Pop blocks
// until a job is available or the queue is closed.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []entry
	seq    uint64
	closed bool
}

// New creates an empty open queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a job and wakes one waiting worker.
func (q *Queue) Push(j *job.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, entry{j: j, seq: q.seq})
	q.seq++
	q.cond.Signal()
	return nil
}

// Pop blocks until a job is available, then removes and returns the one
// with the highest current priority (FIFO among equal priorities). It
// returns ok=false once the queue has been closed.
//
// Priority evaluators run under the queue lock during the scan. They
// are expected to be cheap reads of external state; the selection is a
// brute-force linear scan, which benchmarks faster than partial sorting
// for the small queue depths this library targets. Evaluators may
// return different values while the scan is in progress; the scan does
// not care.
func (q *Queue) Pop() (*job.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return nil, false
	}

	best := 0
	bestPriority := q.items[0].j.PriorityValue()
	for i := 1; i < len(q.items); i++ {
		p := q.items[i].j.PriorityValue()
		if p > bestPriority || (p == bestPriority && q.items[i].seq < q.items[best].seq) {
			best = i
			bestPriority = p
		}
	}

	j := q.items[best].j
	// Swap-remove: move the last entry into the hole.
	last := len(q.items) - 1
	q.items[best] = q.items[last]
	q.items[last] = entry{}
	q.items = q.items[:last]
	return j, true
}

// Len returns the number of pending jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain removes and returns all pending jobs without closing the queue.
func (q *Queue) Drain() []*job.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.drainLocked()
}

// Close marks the queue closed, wakes every waiting worker, and returns
// the jobs that were still pending so the caller can abort them. Push
// after Close fails with ErrClosed; Pop returns ok=false.
func (q *Queue) Close() []*job.Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	dropped := q.drainLocked()
	q.cond.Broadcast()
	return dropped
}

func (q *Queue) drainLocked() []*job.Job {
	if len(q.items) == 0 {
		return nil
	}
	jobs := make([]*job.Job, len(q.items))
	for i, e := range q.items {
		jobs[i] = e.j
	}
	q.items = nil
	return jobs
}
