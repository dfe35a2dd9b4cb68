package spool_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xraph/spool"
)

// S3: chained stages consume the prior result.
func TestThen_ChainsResults(t *testing.T) {
	p := newTestPool(t, 2)

	f := spool.DispatchResult(func(_ *spool.Token) (int, error) {
		return 42, nil
	}, spool.Context{Pool: p})

	doubled := spool.Then(f, func(v int, _ *spool.Token) (int, error) {
		return v * 2, nil
	})

	logged := make(chan int, 1)
	spool.ThenDo(doubled, func(v int) { logged <- v })

	if got := doubled.Join(); got != 84 {
		t.Fatalf("doubled.Join() = %d, want 84", got)
	}
	select {
	case got := <-logged:
		if got != 84 {
			t.Fatalf("logged %d, want 84", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("fire-and-forget continuation never ran")
	}
}

func TestThen_RunsAfterAntecedentAlreadyResolved(t *testing.T) {
	p := newTestPool(t, 2)

	f := spool.DispatchResult(func(_ *spool.Token) (int, error) {
		return 10, nil
	}, spool.Context{Pool: p})
	f.Join()

	next := spool.Then(f, func(v int, _ *spool.Token) (int, error) {
		return v + 1, nil
	})
	if got := next.Join(); got != 11 {
		t.Fatalf("Join() = %d, want 11", got)
	}
}

// S4: abandoning the head of a chain cancels every downstream stage
// without running any of them.
func TestThen_CancellationPropagates(t *testing.T) {
	p := newTestPool(t, 1)

	// Hold the only worker so the head job stays queued.
	hold := make(chan struct{})
	started := make(chan struct{})
	spool.Dispatch(func() {
		close(started)
		<-hold
	}, spool.Context{Pool: p})
	<-started

	var headRan, midRan, tailRan atomic.Bool
	head := spool.DispatchResult(func(_ *spool.Token) (int, error) {
		headRan.Store(true)
		return 1, nil
	}, spool.Context{Pool: p})

	mid := spool.Then(head, func(v int, _ *spool.Token) (int, error) {
		midRan.Store(true)
		return v + 1, nil
	})
	tail := spool.Then(mid, func(v int, _ *spool.Token) (int, error) {
		tailRan.Store(true)
		return v + 1, nil
	})

	// Drop the only handle on the head future: auto-cancel on abandon.
	head.Close()

	if !mid.Canceled() || !tail.Canceled() {
		t.Fatal("cancellation should propagate down the chain immediately")
	}
	if got := tail.Join(); got != 0 {
		t.Fatalf("tail.Join() = %d, want zero value", got)
	}

	close(hold)
	ctxDrain := spool.DispatchResult(func(_ *spool.Token) (bool, error) {
		return true, nil
	}, spool.Context{Pool: p})
	ctxDrain.Join()

	if headRan.Load() || midRan.Load() || tailRan.Load() {
		t.Fatal("no stage of a canceled chain may execute")
	}
}

func TestDispatchResult_CancelTokenBeforeRun(t *testing.T) {
	p := newTestPool(t, 1)

	hold := make(chan struct{})
	started := make(chan struct{})
	spool.Dispatch(func() {
		close(started)
		<-hold
	}, spool.Context{Pool: p})
	<-started

	var ran atomic.Bool
	f := spool.DispatchResult(func(_ *spool.Token) (int, error) {
		ran.Store(true)
		return 1, nil
	}, spool.Context{Pool: p})

	f.Cancel()
	close(hold)

	if got := f.Join(); got != 0 {
		t.Fatalf("Join() = %d, want zero value", got)
	}
	if !f.Canceled() {
		t.Fatal("expected canceled future")
	}
	if ran.Load() {
		t.Fatal("closure must not run once its token is set")
	}
}

func TestThen_ExplicitContextRetargetsPool(t *testing.T) {
	p1 := newTestPool(t, 1)
	p2 := newTestPool(t, 1)

	f := spool.DispatchResult(func(_ *spool.Token) (int, error) {
		return 5, nil
	}, spool.Context{Pool: p1})

	next := spool.Then(f, func(v int, _ *spool.Token) (int, error) {
		return v * 3, nil
	}, spool.Context{Pool: p2})

	if got := next.Join(); got != 15 {
		t.Fatalf("Join() = %d, want 15", got)
	}
	if total := p2.Metrics().Total(); total != 1 {
		t.Fatalf("retargeted pool ran %d jobs, want 1", total)
	}
}

func TestThen_ContinuationStaysOnAntecedentPool(t *testing.T) {
	p := newTestPool(t, 1)

	f := spool.DispatchResult(func(_ *spool.Token) (int, error) {
		return 1, nil
	}, spool.Context{Pool: p})

	next := spool.Then(f, func(v int, _ *spool.Token) (int, error) {
		return v + 1, nil
	})
	next.Join()

	if total := p.Metrics().Total(); total != 2 {
		t.Fatalf("antecedent pool ran %d jobs, want 2 (head + continuation)", total)
	}
}

func TestThen_ErrorInStagePropagatesCancellation(t *testing.T) {
	p := newTestPool(t, 1)

	f := spool.DispatchResult(func(_ *spool.Token) (int, error) {
		return 1, nil
	}, spool.Context{Pool: p})

	var tailRan atomic.Bool
	mid := spool.Then(f, func(_ int, _ *spool.Token) (int, error) {
		return 0, errTestStage
	})
	tail := spool.Then(mid, func(_ int, _ *spool.Token) (int, error) {
		tailRan.Store(true)
		return 9, nil
	})

	if got := tail.Join(); got != 0 {
		t.Fatalf("tail.Join() = %d, want zero value", got)
	}
	if !tail.Canceled() {
		t.Fatal("failure mid-chain should cancel downstream stages")
	}
	if tailRan.Load() {
		t.Fatal("downstream stage of a failed stage must not run")
	}
}

var errTestStage = errors.New("stage failed")
