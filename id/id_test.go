package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/spool/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"JobID", id.NewJobID, "job_"},
		{"PoolID", id.NewPoolID, "pool_"},
		{"WorkerID", id.NewWorkerID, "wkr_"},
		{"CronID", id.NewCronID, "cron_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixJob)
	if i.IsZero() {
		t.Fatal("expected non-zero ID")
	}
	if i.Prefix() != id.PrefixJob {
		t.Errorf("expected prefix %q, got %q", id.PrefixJob, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := id.NewJobID()
	parsed, err := id.Parse(original.String())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.String() != original.String() {
		t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
	}
}

func TestParseRejectsEmpty(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Fatal("expected error for empty string")
	}
}

func TestZeroValue(t *testing.T) {
	var i id.ID
	if !i.IsZero() {
		t.Fatal("zero value should report IsZero")
	}
	if i.String() != "" {
		t.Errorf("zero value String() = %q, want empty", i.String())
	}
}

func TestTextMarshalRoundTrip(t *testing.T) {
	original := id.NewPoolID()
	b, err := original.MarshalText()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var parsed id.ID
	if err := parsed.UnmarshalText(b); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed.String() != original.String() {
		t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
	}
}
