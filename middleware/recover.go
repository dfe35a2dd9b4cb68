package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/spool/job"
)

// Recover returns middleware that recovers from panics in the thunk.
// Panics are converted to errors and logged with a stack trace, so a
// misbehaving closure never takes down its worker.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("job panicked",
					slog.String("job_id", j.ID.String()),
					slog.String("job_name", j.Name),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in job %s: %v", j.ID, r)
			}
		}()
		return next(ctx)
	}
}
