package spool

import "sync/atomic"

// Token is a shared monotonic cancellation flag. It is passed into any
// job closure that accepts one and shared with the job's future, so
// either side can request or observe cancellation.
//
// Cancellation is cooperative and advisory: setting the token never
// interrupts a running job. Workers check the token before invoking a
// closure; closures should check it at convenient points in long work.
type Token struct {
	flag atomic.Bool
}

// NewToken creates an unset token.
func NewToken() *Token { return &Token{} }

// Cancel sets the token. Once set it never clears.
func (t *Token) Cancel() { t.flag.Store(true) }

// Canceled reports whether the token has been set.
func (t *Token) Canceled() bool { return t.flag.Load() }
