// Package counters implements the two monotonic, concurrency-safe
// counters spec §6 requires: the total number of load/store
// instructions examined, and how many were found omittable.
//
// A sharded-per-CPU-cache-line counter exists for write-mostly values
// updated from many goroutines at once, but a function-level analyzer
// increments these at most a handful of times per function body, so
// contention is never the bottleneck here; a plain pair of atomic
// words gets the same concurrency safety without that machinery.
package counters

import "sync/atomic"

// Counters holds the per-run totals.
type Counters struct {
	total     int64
	omittable int64
}

// AddTotal adds n to the total instruction count.
func (c *Counters) AddTotal(n int) {
	atomic.AddInt64(&c.total, int64(n))
}

// AddOmittable adds n to the omittable instruction count.
func (c *Counters) AddOmittable(n int) {
	atomic.AddInt64(&c.omittable, int64(n))
}

// Total returns the current total instruction count.
func (c *Counters) Total() int64 {
	return atomic.LoadInt64(&c.total)
}

// Omittable returns the current omittable instruction count.
func (c *Counters) Omittable() int64 {
	return atomic.LoadInt64(&c.omittable)
}
