package spool

import "github.com/xraph/spool/job"

// ErrCanceled marks a job that short-circuited because its token was
// set before the closure ran. Aliased here so
// callers inspecting thunk outcomes need not import the job package.
var ErrCanceled = job.ErrCanceled
