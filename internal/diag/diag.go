// Package diag provides near-zero-overhead-when-disabled counters for
// tracking contention on the allocator's hot paths (the allocator
// counts CAS losses and full sub-bitmap skips). Counting is skipped at
// run time unless Enabled is true, so a disabled counter costs one
// branch per Inc.
package diag

import "sync/atomic"

// Enabled gates whether Counter.Inc does any work at all. Set it to
// true to collect contention counters during development; it is a var,
// not a build tag, so tests can turn it on selectively.
var Enabled = false

// Counter is a statistic that is not updated when Enabled is false.
type Counter struct {
	v atomic.Int64
}

// Inc increments the counter by one if diagnostics are enabled.
func (c *Counter) Inc() {
	if Enabled {
		c.v.Add(1)
	}
}

// Load returns the counter's current value.
func (c *Counter) Load() int64 {
	return c.v.Load()
}
