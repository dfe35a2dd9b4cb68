// Package id defines TypeID-based identity types for spool entities.
//
// Jobs, pools, workers, and cron entries each get a prefix-qualified,
// K-sortable (UUIDv7-based), URL-safe identifier in the format
// "prefix_suffix". IDs exist for observability: they appear in log
// attributes and hook callbacks so a job can be followed across its
// lifecycle.
package id

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

// Prefix constants for all spool entity types.
const (
	PrefixJob    Prefix = "job"
	PrefixPool   Prefix = "pool"
	PrefixWorker Prefix = "wkr"
	PrefixCron   Prefix = "cron"
)

// ID is a prefix-qualified, globally unique, sortable identifier.
// The zero value is invalid; test with IsZero.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "job_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}
	return ID{inner: tid, valid: true}, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}
	return parsed
}

// Prefix returns the entity-type prefix of the ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}
	return Prefix(i.inner.Prefix())
}

// String returns the full "prefix_suffix" representation.
// The zero ID renders as an empty string.
func (i ID) String() string {
	if !i.valid {
		return ""
	}
	return i.inner.String()
}

// IsZero reports whether the ID is the zero value.
func (i ID) IsZero() bool { return !i.valid }

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*i = Nil
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// NewJobID generates a new job identifier.
func NewJobID() ID { return New(PrefixJob) }

// NewPoolID generates a new pool identifier.
func NewPoolID() ID { return New(PrefixPool) }

// NewWorkerID generates a new worker identifier.
func NewWorkerID() ID { return New(PrefixWorker) }

// NewCronID generates a new cron entry identifier.
func NewCronID() ID { return New(PrefixCron) }
