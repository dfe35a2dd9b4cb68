package hook

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/spool/job"
)

// Compile-time interface checks.
var (
	_ Hook         = (*SlogHook)(nil)
	_ JobQueued    = (*SlogHook)(nil)
	_ JobStarted   = (*SlogHook)(nil)
	_ JobCompleted = (*SlogHook)(nil)
	_ JobCanceled  = (*SlogHook)(nil)
	_ PoolShutdown = (*SlogHook)(nil)
)

// SlogHook logs every lifecycle event through a structured logger.
// Queued/started/completed log at debug, cancellations and shutdown at
// info.
type SlogHook struct {
	logger *slog.Logger
}

// NewSlogHook creates a SlogHook. A nil logger uses slog.Default().
func NewSlogHook(logger *slog.Logger) *SlogHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogHook{logger: logger}
}

// Name implements Hook.
func (s *SlogHook) Name() string { return "slog" }

// OnJobQueued implements JobQueued.
func (s *SlogHook) OnJobQueued(_ context.Context, pool string, j *job.Job) error {
	s.logger.Debug("job queued",
		slog.String("pool", pool),
		slog.String("job_id", j.ID.String()),
		slog.String("job_name", j.Name),
	)
	return nil
}

// OnJobStarted implements JobStarted.
func (s *SlogHook) OnJobStarted(_ context.Context, pool string, j *job.Job) error {
	s.logger.Debug("job started",
		slog.String("pool", pool),
		slog.String("job_id", j.ID.String()),
		slog.String("job_name", j.Name),
	)
	return nil
}

// OnJobCompleted implements JobCompleted.
func (s *SlogHook) OnJobCompleted(_ context.Context, pool string, j *job.Job, elapsed time.Duration) error {
	s.logger.Debug("job completed",
		slog.String("pool", pool),
		slog.String("job_id", j.ID.String()),
		slog.String("job_name", j.Name),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}

// OnJobCanceled implements JobCanceled.
func (s *SlogHook) OnJobCanceled(_ context.Context, pool string, j *job.Job) error {
	s.logger.Info("job canceled",
		slog.String("pool", pool),
		slog.String("job_id", j.ID.String()),
		slog.String("job_name", j.Name),
	)
	return nil
}

// OnPoolShutdown implements PoolShutdown.
func (s *SlogHook) OnPoolShutdown(_ context.Context, pool string) error {
	s.logger.Info("pool shut down", slog.String("pool", pool))
	return nil
}
