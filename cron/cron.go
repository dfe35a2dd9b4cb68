// Package cron dispatches recurring jobs into pools on cron schedules.
//
// Entries are named and in-memory: a Scheduler ticks, finds due
// entries, and dispatches each entry's task with its dispatch context
// (pool, group, priority). Standard 5-field cron expressions and
// descriptors like "@every 30s" are supported.
package cron

import (
	"errors"
	"fmt"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/xraph/spool"
	"github.com/xraph/spool/id"
)

var (
	// ErrDuplicateEntry is returned by Add for an already-used name.
	ErrDuplicateEntry = errors.New("cron: duplicate entry")

	// ErrEntryNotFound is returned when no entry has the given name.
	ErrEntryNotFound = errors.New("cron: entry not found")
)

// cronParser supports standard 5-field cron and descriptors like "@every 30s".
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// ParseSchedule parses a cron expression and returns the schedule.
func ParseSchedule(expr string) (cronlib.Schedule, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("cron: parse %q: %w", expr, err)
	}
	return sched, nil
}

// Entry is a named recurring dispatch.
type Entry struct {
	ID       id.ID
	Name     string
	Schedule string
	Enabled  bool
	LastRun  time.Time
	NextRun  time.Time

	task     func()
	context  spool.Context
	schedule cronlib.Schedule
}
