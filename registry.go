package spool

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/xraph/spool/hook"
	"github.com/xraph/spool/worker"
)

// Runtime is the process-wide pool registry. It owns every pool created
// through Get and Default and shuts them down together.
type Runtime struct {
	mu     sync.Mutex
	pools  map[string]*worker.Pool
	alive  bool
	logger *slog.Logger
	hooks  *hook.Registry

	defaultConcurrency int
}

var (
	runtimeOnce     sync.Once
	runtimeInstance *Runtime
)

// instance returns the runtime singleton, materializing it on first
// use. Initialization is idempotent and thread-safe.
func instance() *Runtime {
	runtimeOnce.Do(func() {
		logger := slog.Default()
		runtimeInstance = &Runtime{
			pools:              make(map[string]*worker.Pool),
			alive:              true,
			logger:             logger,
			hooks:              hook.NewRegistry(logger),
			defaultConcurrency: DefaultConcurrency(),
		}
	})
	return runtimeInstance
}

// Option configures the runtime.
type Option func(*Runtime)

// WithLogger sets the structured logger used by the runtime and every
// pool it creates afterwards.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
		prev := r.hooks
		r.hooks = hook.NewRegistry(l)
		for _, h := range prev.Hooks() {
			r.hooks.Register(h)
		}
	}
}

// WithDefaultConcurrency overrides the default pool's worker count.
// It only affects the default pool if set before the pool's first use.
func WithDefaultConcurrency(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.defaultConcurrency = n
		}
	}
}

// WithHook registers a lifecycle hook with the runtime's registry.
// Pools created afterwards emit into it.
func WithHook(h hook.Hook) Option {
	return func(r *Runtime) { r.hooks.Register(h) }
}

// Configure applies options to the runtime. Call it before the first
// dispatch; options do not retrofit pools that already exist.
func Configure(opts ...Option) {
	r := instance()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, opt := range opts {
		opt(r)
	}
}

// Default returns the default pool, creating it on first use with
// concurrency max(2, NumCPU-1) unless overridden via Configure.
func Default() *worker.Pool {
	return Get("")
}

// Get returns the pool with the given name, creating it on first use.
// Lookup by name returns the same pool for the process lifetime. Named
// pools start with a small fixed concurrency; size them with
// SetConcurrency. Pools requested after Shutdown are created already
// shut down, so dispatches into them discard.
func Get(name string) *worker.Pool {
	r := instance()
	r.mu.Lock()
	if p, ok := r.pools[name]; ok {
		r.mu.Unlock()
		return p
	}

	concurrency := namedPoolConcurrency
	if name == "" {
		concurrency = r.defaultConcurrency
	}
	p := worker.New(name, concurrency,
		worker.WithLogger(r.logger),
		worker.WithHooks(r.hooks),
	)
	r.pools[name] = p
	dead := !r.alive
	r.mu.Unlock()

	if dead {
		_ = p.Shutdown(context.Background())
	}
	return p
}

// Pools returns all pools currently registered.
func Pools() []*worker.Pool {
	r := instance()
	r.mu.Lock()
	defer r.mu.Unlock()
	pools := make([]*worker.Pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	return pools
}

// Alive reports whether the runtime has not been shut down.
func Alive() bool {
	r := instance()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.alive
}

// Shutdown stops every registered pool concurrently, following each
// pool's shutdown protocol: queued jobs are discarded (their futures
// settle as canceled), running jobs are awaited, workers exit. Once the
// ctx deadline passes, running job contexts are canceled and Shutdown
// keeps waiting for the workers to exit. Shutdown is idempotent.
func Shutdown(ctx context.Context) error {
	r := instance()
	r.mu.Lock()
	r.alive = false
	pools := make([]*worker.Pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	r.mu.Unlock()

	var g errgroup.Group
	for _, p := range pools {
		g.Go(func() error { return p.Shutdown(ctx) })
	}
	return g.Wait()
}
