package queue

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/spool/job"
)

func noop(_ context.Context) error { return nil }

func named(name string, opts ...job.Option) *job.Job {
	opts = append([]job.Option{job.WithName(name)}, opts...)
	return job.New(noop, opts...)
}

// ---------------------------------------------------------------------------
// Push / Pop basics
// ---------------------------------------------------------------------------

func TestPushPop_Single(t *testing.T) {
	q := New()
	want := named("only")
	if err := q.Push(want); err != nil {
		t.Fatalf("push error: %v", err)
	}

	got, ok := q.Pop()
	if !ok {
		t.Fatal("expected a job")
	}
	if got != want {
		t.Fatalf("popped %v, want %v", got.Name, want.Name)
	}
	if q.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", q.Len())
	}
}

func TestPop_BlocksUntilPush(t *testing.T) {
	q := New()

	popped := make(chan *job.Job, 1)
	go func() {
		j, ok := q.Pop()
		if ok {
			popped <- j
		}
	}()

	select {
	case <-popped:
		t.Fatal("Pop returned before any Push")
	case <-time.After(20 * time.Millisecond):
	}

	want := named("late")
	if err := q.Push(want); err != nil {
		t.Fatalf("push error: %v", err)
	}

	select {
	case got := <-popped:
		if got != want {
			t.Fatalf("popped %v, want %v", got.Name, want.Name)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not wake after Push")
	}
}

// ---------------------------------------------------------------------------
// Priority ordering
// ---------------------------------------------------------------------------

func TestPop_HighestPriorityFirst(t *testing.T) {
	q := New()
	low := named("low", job.WithPriority(func() float64 { return 1 }))
	high := named("high", job.WithPriority(func() float64 { return 10 }))
	mid := named("mid", job.WithPriority(func() float64 { return 5 }))

	for _, j := range []*job.Job{low, high, mid} {
		if err := q.Push(j); err != nil {
			t.Fatalf("push error: %v", err)
		}
	}

	wantOrder := []string{"high", "mid", "low"}
	for _, want := range wantOrder {
		j, ok := q.Pop()
		if !ok {
			t.Fatal("queue closed unexpectedly")
		}
		if j.Name != want {
			t.Fatalf("popped %q, want %q", j.Name, want)
		}
	}
}

func TestPop_FIFOTieBreak(t *testing.T) {
	q := New()
	names := []string{"a", "b", "c", "d", "e"}
	for _, n := range names {
		if err := q.Push(named(n)); err != nil {
			t.Fatalf("push error: %v", err)
		}
	}
	// Each pop swap-removes, scrambling slice order; FIFO must still hold.
	for _, want := range names {
		j, ok := q.Pop()
		if !ok {
			t.Fatal("queue closed unexpectedly")
		}
		if j.Name != want {
			t.Fatalf("popped %q, want %q (FIFO among equal priorities)", j.Name, want)
		}
	}
}

func TestPop_DynamicPriorityReevaluated(t *testing.T) {
	q := New()
	aPriority := 10.0
	a := named("a", job.WithPriority(func() float64 { return aPriority }))
	b := named("b", job.WithPriority(func() float64 { return 5 }))
	if err := q.Push(a); err != nil {
		t.Fatalf("push error: %v", err)
	}
	if err := q.Push(b); err != nil {
		t.Fatalf("push error: %v", err)
	}

	// Priorities change after insert; the pop-time scan must observe it.
	aPriority = 1.0

	j, _ := q.Pop()
	if j.Name != "b" {
		t.Fatalf("popped %q, want %q after priority drop", j.Name, "b")
	}
}

// ---------------------------------------------------------------------------
// Close
// ---------------------------------------------------------------------------

func TestClose_ReturnsPendingAndWakesPoppers(t *testing.T) {
	q := New()
	if err := q.Push(named("pending1")); err != nil {
		t.Fatalf("push error: %v", err)
	}
	if err := q.Push(named("pending2")); err != nil {
		t.Fatalf("push error: %v", err)
	}

	dropped := q.Close()
	if len(dropped) != 2 {
		t.Fatalf("Close returned %d jobs, want 2", len(dropped))
	}

	woke := make(chan bool, 1)
	go func() {
		_, ok := q.Pop()
		woke <- ok
	}()
	select {
	case ok := <-woke:
		if ok {
			t.Fatal("Pop after Close should report ok=false")
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not return after Close")
	}

	if err := q.Push(named("late")); err != ErrClosed {
		t.Fatalf("Push after Close error = %v, want %v", err, ErrClosed)
	}

	// Second Close is a no-op.
	if dropped := q.Close(); dropped != nil {
		t.Fatalf("second Close returned %d jobs, want none", len(dropped))
	}
}

func TestClose_WakesBlockedPopper(t *testing.T) {
	q := New()

	woke := make(chan bool, 1)
	go func() {
		_, ok := q.Pop()
		woke <- ok
	}()

	// Give the popper time to block on the empty queue.
	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case ok := <-woke:
		if ok {
			t.Fatal("Pop woken by Close should report ok=false")
		}
	case <-time.After(time.Second):
		t.Fatal("blocked Pop did not wake on Close")
	}
}

func TestDrain_EmptiesWithoutClosing(t *testing.T) {
	q := New()
	if err := q.Push(named("x")); err != nil {
		t.Fatalf("push error: %v", err)
	}

	if got := len(q.Drain()); got != 1 {
		t.Fatalf("Drain returned %d jobs, want 1", got)
	}
	if err := q.Push(named("y")); err != nil {
		t.Fatalf("queue should still accept pushes after Drain: %v", err)
	}
}
