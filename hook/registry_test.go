package hook_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/spool/hook"
	"github.com/xraph/spool/job"
)

// recordingHook implements a subset of the lifecycle interfaces and
// records the events it saw.
type recordingHook struct {
	name   string
	events []string
	err    error
}

func (h *recordingHook) Name() string { return h.name }

func (h *recordingHook) OnJobQueued(_ context.Context, pool string, _ *job.Job) error {
	h.events = append(h.events, "queued:"+pool)
	return h.err
}

func (h *recordingHook) OnJobCompleted(_ context.Context, pool string, _ *job.Job, _ time.Duration) error {
	h.events = append(h.events, "completed:"+pool)
	return h.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJob() *job.Job {
	return job.New(func(_ context.Context) error { return nil }, job.WithName("t"))
}

func TestRegistry_EmitsOnlyImplementedEvents(t *testing.T) {
	r := hook.NewRegistry(discardLogger())
	h := &recordingHook{name: "rec"}
	r.Register(h)

	ctx := context.Background()
	j := testJob()
	r.EmitJobQueued(ctx, "default", j)
	r.EmitJobStarted(ctx, "default", j) // not implemented by recordingHook
	r.EmitJobCompleted(ctx, "default", j, time.Millisecond)
	r.EmitJobCanceled(ctx, "default", j) // not implemented
	r.EmitPoolShutdown(ctx, "default")   // not implemented

	want := []string{"queued:default", "completed:default"}
	if len(h.events) != len(want) {
		t.Fatalf("events = %v, want %v", h.events, want)
	}
	for i := range want {
		if h.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", h.events, want)
		}
	}
}

func TestRegistry_RegistrationOrder(t *testing.T) {
	r := hook.NewRegistry(discardLogger())
	var order []string
	a := &orderedHook{name: "a", order: &order}
	b := &orderedHook{name: "b", order: &order}
	r.Register(a)
	r.Register(b)

	r.EmitJobQueued(context.Background(), "p", testJob())

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v, want [a b]", order)
	}
}

type orderedHook struct {
	name  string
	order *[]string
}

func (h *orderedHook) Name() string { return h.name }

func (h *orderedHook) OnJobQueued(_ context.Context, _ string, _ *job.Job) error {
	*h.order = append(*h.order, h.name)
	return nil
}

func TestRegistry_HookErrorsAreContained(t *testing.T) {
	r := hook.NewRegistry(discardLogger())
	failing := &recordingHook{name: "bad", err: errors.New("hook broke")}
	fine := &recordingHook{name: "good"}
	r.Register(failing)
	r.Register(fine)

	// Must not panic, and later hooks must still run.
	r.EmitJobQueued(context.Background(), "p", testJob())

	if len(fine.events) != 1 {
		t.Fatalf("later hook saw %d events, want 1", len(fine.events))
	}
}

func TestSlogHook_ImplementsAllEvents(t *testing.T) {
	s := hook.NewSlogHook(discardLogger())
	r := hook.NewRegistry(discardLogger())
	r.Register(s)

	ctx := context.Background()
	j := testJob()
	r.EmitJobQueued(ctx, "p", j)
	r.EmitJobStarted(ctx, "p", j)
	r.EmitJobCompleted(ctx, "p", j, time.Millisecond)
	r.EmitJobCanceled(ctx, "p", j)
	r.EmitPoolShutdown(ctx, "p")
}
