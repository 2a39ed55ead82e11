// Package mixer produces well-distributed small integers for picking
// scan start positions in the allocator's page and sub-bitmap loops.
//
// It has no notion of object size, pages, or bits — callers reduce its
// output modulo whatever range they are scanning.
package mixer

import (
	"sync"
	"unsafe"
)

// seedCell holds one goroutine's logical hash seed. Cells are recycled
// through a sync.Pool rather than a real thread-local slot — Go has no
// public TLS, and a sync.Pool round-trip tends to stay on the same P,
// which is enough: successive calls from the same caller differ,
// cheaply, without a shared hot counter.
type seedCell struct {
	seed uint32
}

var pool = sync.Pool{
	New: func() interface{} { return new(seedCell) },
}

// Next returns a hash of the caller's stack-frame address mixed with a
// per-cell monotonic seed, and advances that seed. The result has no
// meaning on its own; callers reduce it modulo the range they're
// scanning (phys page count, or 16 for a sub-bitmap index).
func Next() uint32 {
	var frame byte
	addr := uint32(uintptr(unsafe.Pointer(&frame)))

	c := pool.Get().(*seedCell)
	c.seed++
	h := finalize(addr ^ c.seed)
	pool.Put(c)
	return h
}

// finalize is the murmur3 32-bit finalizer: cheap, well-distributed,
// and has no cryptographic pretensions.
func finalize(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// Bounded returns Next() reduced into [0, n). n must be > 0.
func Bounded(n uint32) uint32 {
	if n == 0 {
		panic("mixer: Bounded(0)")
	}
	return Next() % n
}
