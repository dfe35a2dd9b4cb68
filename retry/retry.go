package retry

import (
	"time"

	"github.com/xraph/spool"
)

// Result dispatches fn and re-dispatches it on failure, up to attempts
// total executions, delaying between attempts per the strategy. The
// returned future resolves with the first successful value, or settles
// as canceled once attempts are exhausted or the token is canceled.
//
// Delays are waited out on a timer, not a worker: between attempts no
// pool slot is held, so retrying jobs cannot starve a pool. Each
// attempt is its own dispatch, so a group in the context counts every
// attempt and may briefly read zero between attempts.
func Result[T any](attempts int, s Strategy, fn func(*spool.Token) (T, error), ctxs ...spool.Context) *spool.Future[T] {
	if attempts < 1 {
		attempts = 1
	}
	if s == nil {
		s = Default()
	}
	c := ctxOf(ctxs)

	return spool.DispatchPromise(func(p *spool.Promise[T]) {
		runAttempt(p, 1, attempts, s, fn, c)
	}, c)
}

// runAttempt executes one attempt on the current worker and, on
// failure, schedules the next one as a fresh dispatch after the
// backoff delay.
func runAttempt[T any](p *spool.Promise[T], attempt, attempts int, s Strategy, fn func(*spool.Token) (T, error), c spool.Context) {
	tok := p.Token()
	if tok.Canceled() {
		p.Cancel()
		return
	}

	v, err := fn(tok)
	if err == nil {
		p.Resolve(v)
		return
	}
	if attempt >= attempts || tok.Canceled() {
		p.Cancel()
		return
	}

	delay := s(attempt)
	time.AfterFunc(delay, func() {
		spool.Dispatch(func() {
			runAttempt(p, attempt+1, attempts, s, fn, c)
		}, c)
	})
}

func ctxOf(ctxs []spool.Context) spool.Context {
	if len(ctxs) > 0 {
		return ctxs[0]
	}
	return spool.Context{}
}
