package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/spool"
	"github.com/xraph/spool/id"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTickInterval sets how often the scheduler checks for due entries.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.tickInterval = d }
}

// WithLogger sets the structured logger for the scheduler.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// Scheduler runs cron entries on a tick loop, dispatching due tasks
// into their pools.
type Scheduler struct {
	logger       *slog.Logger
	tickInterval time.Duration

	mu      sync.Mutex
	entries map[string]*Entry
	running bool

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:       slog.Default(),
		tickInterval: time.Second,
		entries:      make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a named recurring dispatch. The dispatch context may
// target a pool, group, or priority exactly like a plain dispatch.
// The first fire happens at the schedule's next activation after now.
func (s *Scheduler) Add(name, expr string, task func(), ctxs ...spool.Context) (*Entry, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}

	var c spool.Context
	if len(ctxs) > 0 {
		c = ctxs[0]
	}

	e := &Entry{
		ID:       id.NewCronID(),
		Name:     name,
		Schedule: expr,
		Enabled:  true,
		NextRun:  sched.Next(time.Now()),
		task:     task,
		context:  c,
		schedule: sched,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[name]; exists {
		return nil, ErrDuplicateEntry
	}
	s.entries[name] = e

	s.logger.Debug("cron entry added",
		slog.String("entry", name),
		slog.String("schedule", expr),
		slog.Time("next_run", e.NextRun),
	)
	return e, nil
}

// Remove deletes an entry by name.
func (s *Scheduler) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[name]; !ok {
		return ErrEntryNotFound
	}
	delete(s.entries, name)
	return nil
}

// Enable turns an entry back on. Its next fire is computed from now.
func (s *Scheduler) Enable(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		return ErrEntryNotFound
	}
	e.Enabled = true
	e.NextRun = e.schedule.Next(time.Now())
	return nil
}

// Disable turns an entry off without removing it.
func (s *Scheduler) Disable(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		return ErrEntryNotFound
	}
	e.Enabled = false
	return nil
}

// Entries returns a snapshot of all entries.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	return out
}

// Start launches the tick loop. It returns immediately.
func (s *Scheduler) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})

	s.wg.Add(1)
	go s.tickLoop(s.stopCh)

	s.logger.Debug("cron scheduler started",
		slog.Duration("tick_interval", s.tickInterval),
	)
	return nil
}

// Stop signals the tick loop to stop and waits for it to finish.
// Tasks already dispatched keep running on their pools.
func (s *Scheduler) Stop(_ context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	stopCh := s.stopCh
	s.mu.Unlock()

	close(stopCh)
	s.wg.Wait()
	s.logger.Debug("cron scheduler stopped")
	return nil
}

func (s *Scheduler) tickLoop(stopCh <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			s.fireDue(now)
		}
	}
}

// fireDue dispatches every enabled entry whose next activation has
// passed. Dispatch happens outside the scheduler lock.
func (s *Scheduler) fireDue(now time.Time) {
	s.mu.Lock()
	var due []*Entry
	for _, e := range s.entries {
		if !e.Enabled || e.NextRun.IsZero() || now.Before(e.NextRun) {
			continue
		}
		e.LastRun = now
		e.NextRun = e.schedule.Next(now)
		due = append(due, e)
	}
	s.mu.Unlock()

	for _, e := range due {
		s.logger.Debug("cron entry fired",
			slog.String("entry", e.Name),
			slog.Time("next_run", e.NextRun),
		)
		spool.Dispatch(e.task, e.context)
	}
}
