// Package worker provides the job pool — a named set of worker
// goroutines draining a shared priority queue.
//
// Each worker pops the best-priority job, runs it through the pool's
// middleware chain, and releases the job's group. Workers are true
// parallel workers: a job runs to completion on the goroutine that
// picked it, and nothing in the pool preempts it.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/xraph/spool/hook"
	"github.com/xraph/spool/id"
	"github.com/xraph/spool/job"
	"github.com/xraph/spool/middleware"
	"github.com/xraph/spool/queue"
)

// Pool is a named scheduler with a target number of concurrent workers
// and a shared priority queue of pending jobs.
type Pool struct {
	name    string
	poolID  id.ID
	queue   *queue.Queue
	logger  *slog.Logger
	hooks   *hook.Registry
	mw      middleware.Middleware
	limiter *rate.Limiter

	// baseCtx is the parent of every job's context. Canceling it is
	// the force-stop path when a shutdown deadline expires.
	baseCtx context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	target int
	live   int
	done   bool

	wg      sync.WaitGroup
	metrics Metrics

	// userMW collects WithMiddleware options until New assembles the
	// final chain.
	userMW []middleware.Middleware
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the structured logger for the pool.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) { p.logger = l }
}

// WithHooks sets the lifecycle hook registry the pool emits into.
func WithHooks(r *hook.Registry) Option {
	return func(p *Pool) { p.hooks = r }
}

// WithMiddleware appends middleware wrapping every job execution.
// A panic-recovery layer is always installed outermost regardless of
// this option; a misbehaving closure must never take down a worker.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(p *Pool) { p.userMW = append(p.userMW, mws...) }
}

// WithRateLimit caps sustained job starts at perSecond with the given
// burst. Zero perSecond disables limiting. Workers that pop a job wait
// on the token bucket before running it; the queue lock is not held
// while waiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(p *Pool) {
		if perSecond <= 0 {
			p.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a pool with the given name and target concurrency and
// starts its workers. Concurrency zero creates a pool that runs
// dispatched jobs synchronously on the caller.
func New(name string, concurrency int, opts ...Option) *Pool {
	if concurrency < 0 {
		concurrency = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		name:    name,
		poolID:  id.NewPoolID(),
		queue:   queue.New(),
		logger:  slog.Default(),
		baseCtx: ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.hooks == nil {
		p.hooks = hook.NewRegistry(p.logger)
	}
	chain := append([]middleware.Middleware{middleware.Recover(p.logger)}, p.userMW...)
	p.mw = middleware.Chain(chain...)
	p.userMW = nil

	p.mu.Lock()
	p.setConcurrencyLocked(concurrency)
	p.mu.Unlock()

	p.logger.Debug("pool created",
		slog.String("pool", p.name),
		slog.String("pool_id", p.poolID.String()),
		slog.Int("concurrency", concurrency),
	)
	return p
}

// Name returns the pool's name. The default pool's name is empty.
func (p *Pool) Name() string { return p.name }

// ID returns the pool's unique identifier.
func (p *Pool) ID() id.ID { return p.poolID }

// Concurrency returns the target worker count.
func (p *Pool) Concurrency() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

// SetConcurrency adjusts the worker count. Upward changes spawn workers
// before the call returns; downward changes are lazy — surplus workers
// exit after finishing their current job.
func (p *Pool) SetConcurrency(n int) {
	if n < 0 {
		n = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	p.setConcurrencyLocked(n)
}

func (p *Pool) setConcurrencyLocked(n int) {
	p.target = n
	for p.live < p.target {
		p.live++
		p.wg.Add(1)
		go p.runWorker()
	}
}

// Dispatch enqueues a job. If the job has a group, the group counter is
// incremented before the job enters the queue. Dispatching into a
// shut-down pool discards the job: its promise resolves as canceled and
// its group is released.
//
// With zero concurrency the job runs synchronously on the caller.
func (p *Pool) Dispatch(j *job.Job) {
	if j.Group != nil {
		j.Group.Add()
	}

	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		p.metrics.total.Add(1)
		p.discard(j)
		return
	}
	synchronous := p.target == 0
	p.mu.Unlock()

	p.metrics.total.Add(1)

	if synchronous {
		p.execute(p.baseCtx, j)
		return
	}

	p.metrics.pending.Add(1)
	if err := p.queue.Push(j); err != nil {
		// Lost the race with Shutdown.
		p.metrics.pending.Add(-1)
		p.discard(j)
		return
	}
	p.hooks.EmitJobQueued(p.baseCtx, p.name, j)
}

// CancelAll discards every queued job. Jobs already running are not
// affected. Each discarded job's promise resolves as canceled and its
// group is released.
func (p *Pool) CancelAll() {
	for _, j := range p.queue.Drain() {
		p.metrics.pending.Add(-1)
		p.discard(j)
	}
}

// Shutdown stops the pool: queued jobs are discarded (their promises
// resolve as canceled, their groups released) and workers exit after
// draining their current job. If ctx expires before the workers finish,
// the contexts of in-flight jobs are canceled and Shutdown keeps
// waiting. Shutdown is idempotent.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		p.wg.Wait()
		return nil
	}
	p.done = true
	p.mu.Unlock()

	p.logger.Debug("pool stopping", slog.String("pool", p.name))

	for _, j := range p.queue.Close() {
		p.metrics.pending.Add(-1)
		p.discard(j)
	}

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		p.logger.Warn("pool shutdown deadline expired, canceling running jobs",
			slog.String("pool", p.name),
		)
		p.cancel()
		<-finished
	}

	p.cancel()
	p.hooks.EmitPoolShutdown(context.Background(), p.name)
	p.logger.Debug("pool stopped", slog.String("pool", p.name))
	return nil
}

// Join blocks until every worker has exited. Shutdown retires them all.
// After SetConcurrency(0) a surplus worker exits only once it finishes
// a job; a worker idle on an empty queue stays until Shutdown.
func (p *Pool) Join() {
	p.wg.Wait()
}

// runWorker is the worker loop: pop the best-priority job, run it,
// release its group, repeat until the queue closes or the target
// concurrency drops below the live count.
func (p *Pool) runWorker() {
	defer p.wg.Done()

	workerID := id.NewWorkerID()
	p.logger.Debug("worker started",
		slog.String("pool", p.name),
		slog.String("worker_id", workerID.String()),
	)

	for {
		j, ok := p.queue.Pop()
		if !ok {
			p.retire(workerID)
			return
		}
		p.metrics.pending.Add(-1)

		if p.limiter != nil {
			// Shutdown cancels baseCtx; the popped job still runs.
			_ = p.limiter.Wait(p.baseCtx)
		}

		p.execute(p.baseCtx, j)

		// Lazy downward transition: the check and the decrement stay in
		// one critical section so concurrent workers cannot both retire
		// off the same live count and undershoot the target.
		p.mu.Lock()
		if p.live > p.target {
			p.live--
			p.mu.Unlock()
			p.logger.Debug("worker exited",
				slog.String("pool", p.name),
				slog.String("worker_id", workerID.String()),
			)
			return
		}
		p.mu.Unlock()
	}
}

func (p *Pool) retire(workerID id.ID) {
	p.mu.Lock()
	p.live--
	p.mu.Unlock()
	p.logger.Debug("worker exited",
		slog.String("pool", p.name),
		slog.String("worker_id", workerID.String()),
	)
}

// execute runs one job through the middleware chain and settles its
// group and metrics. Shared by workers and the zero-concurrency
// synchronous path.
func (p *Pool) execute(ctx context.Context, j *job.Job) {
	if j.Group != nil && j.Group.Canceled() && j.Cancel != nil {
		j.Cancel()
	}

	p.metrics.running.Add(1)
	p.hooks.EmitJobStarted(ctx, p.name, j)

	start := time.Now()
	err := p.mw(ctx, j, j.Run)
	elapsed := time.Since(start)

	p.metrics.running.Add(-1)

	if err != nil {
		p.metrics.canceled.Add(1)
		p.hooks.EmitJobCanceled(ctx, p.name, j)
	} else {
		p.hooks.EmitJobCompleted(ctx, p.name, j, elapsed)
	}

	if j.Group != nil {
		j.Group.Done()
	}
}

// discard settles a job that will never run: abort wiring resolves its
// promise as canceled, then the group is released.
func (p *Pool) discard(j *job.Job) {
	if j.Abort != nil {
		j.Abort()
	}
	p.metrics.canceled.Add(1)
	p.hooks.EmitJobCanceled(p.baseCtx, p.name, j)
	if j.Group != nil {
		j.Group.Done()
	}
}
