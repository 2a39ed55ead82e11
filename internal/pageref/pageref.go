// Package pageref implements the per-page reference/drain-lock word:
// one atomic 64-bit word whose high bit is a drain lock and whose low
// 63 bits are a reference count of allocators currently operating on
// the page.
package pageref

import "sync/atomic"

// drainBit is the high bit of the word; the remaining 63 bits are the
// reference count.
const drainBit uint64 = 1 << 63

// Word is a page's reference/drain-lock word. Its zero value is
// unlocked with a zero reference count; Reset puts it into the
// drain-locked state a freshly reserved page starts in until expansion
// publishes it.
type Word struct {
	v atomic.Uint64
}

// Reset puts the word back into its newborn state: drain-locked, zero
// references. Called once at construction for every virtual page.
func (w *Word) Reset() {
	w.v.Store(drainBit)
}

// TryRef attempts to acquire a reference on the page. It fails (and
// leaves the reference count unchanged) if the drain lock is held.
func (w *Word) TryRef() bool {
	old := w.v.Add(1) - 1
	if old&drainBit != 0 {
		w.v.Add(^uint64(0)) // fetch-sub 1
		return false
	}
	return true
}

// Unref releases a reference previously acquired by TryRef (or by the
// allocator's own asymmetric bookkeeping convention — see the root
// package's Alloc/Free for which paths call it).
func (w *Word) Unref() {
	w.v.Add(^uint64(0))
}

// LockDrain sets the drain bit, refusing all future TryRef calls until
// UnlockDrain. Existing holders may still Unref.
func (w *Word) LockDrain() {
	w.v.Or(drainBit)
}

// UnlockDrain clears the drain bit, making the page allocatable again.
func (w *Word) UnlockDrain() {
	w.v.And(^drainBit)
}

// Snapshot returns the current (locked, refcount) pair for inspection.
// Not transactional with respect to concurrent TryRef/Unref.
func (w *Word) Snapshot() (locked bool, refs uint64) {
	v := w.v.Load()
	return v&drainBit != 0, v &^ drainBit
}

// Reclaimable reports whether the page is drain-locked with zero
// outstanding references — the only state in which its physical
// backing may be released.
func (w *Word) Reclaimable() bool {
	locked, refs := w.Snapshot()
	return locked && refs == 0
}
