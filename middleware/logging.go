package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xraph/spool/job"
)

// Logging returns middleware that logs job start and completion.
// Cancellation logs at debug level; it is a normal outcome, not a fault.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) error {
		logger.Debug("job started",
			slog.String("job_id", j.ID.String()),
			slog.String("job_name", j.Name),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		switch {
		case errors.Is(err, job.ErrCanceled):
			logger.Debug("job canceled",
				slog.String("job_id", j.ID.String()),
				slog.String("job_name", j.Name),
				slog.Duration("elapsed", elapsed),
			)
		case err != nil:
			logger.Error("job failed",
				slog.String("job_id", j.ID.String()),
				slog.String("job_name", j.Name),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		default:
			logger.Debug("job completed",
				slog.String("job_id", j.ID.String()),
				slog.String("job_name", j.Name),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
