package spool

import "github.com/xraph/spool/worker"

// Stats aggregates counters across every registered pool.
type Stats struct {
	Pools []worker.Stats
}

// GetStats snapshots the counters of all registered pools.
func GetStats() Stats {
	pools := Pools()
	s := Stats{Pools: make([]worker.Stats, 0, len(pools))}
	for _, p := range pools {
		s.Pools = append(s.Pools, p.Stats())
	}
	return s
}

// Pending returns the total number of queued jobs across all pools.
func (s Stats) Pending() int64 {
	var n int64
	for _, p := range s.Pools {
		n += p.Pending
	}
	return n
}

// Running returns the total number of executing jobs across all pools.
func (s Stats) Running() int64 {
	var n int64
	for _, p := range s.Pools {
		n += p.Running
	}
	return n
}

// Canceled returns the total number of canceled jobs across all pools.
func (s Stats) Canceled() int64 {
	var n int64
	for _, p := range s.Pools {
		n += p.Canceled
	}
	return n
}

// Jobs returns the number of active jobs in the system: pending plus
// running.
func (s Stats) Jobs() int64 {
	return s.Pending() + s.Running()
}
