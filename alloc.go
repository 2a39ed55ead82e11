package slaballoc

import (
	"context"

	"github.com/biscuit-os/slaballoc/internal/bitmap"
	"github.com/biscuit-os/slaballoc/internal/mixer"
)

// Alloc returns a pointer to a freshly claimed slot, or 0 if every
// live page is full and no further page can be brought online. The
// slot's memory is not cleared: a slot reused after Free still holds
// whatever was last written to it. Alloc never blocks; ctx is consulted only around the
// expand-and-retry fallback (step 3 of the algorithm below), the one
// place a caller could in principle spin against coordination
// contention.
//
// Algorithm:
//  1. Hash a stack-frame sample with the mixer's seed to pick a
//     starting page index.
//  2. Walk live pages starting there. For each: try to acquire a
//     reference (skip drain-locked pages); scan its 16 sub-bitmaps
//     starting from a second hashed index; CAS the first free bit in
//     each non-full sub-bitmap. A CAS loss or a full sub-bitmap moves
//     on to the next sub-bitmap — never retried in place, which is
//     what keeps this lock-free instead of livelock-prone.
//  3. If every live page was full, try to expand and restart, or
//     return 0 once virtPageCount is reached too.
func (a *Allocator) Alloc(ctx context.Context) (uintptr, error) {
	for {
		phys := int(a.physPageCount.Load())
		start := int(mixer.Bounded(uint32(phys)))

		for i := 0; i < phys; i++ {
			page := (start + i) % phys
			ref := &a.refs[page]
			if !ref.TryRef() {
				continue
			}

			if ptr, ok := a.scanPage(page); ok {
				// Deliberately asymmetric: the successful-claim path
				// does not Unref here. The ref word tracks outstanding
				// allocations on this page, and the matching Free call
				// is what releases it.
				a.allocatedSlots.Add(1)
				a.maybeExpand()
				return ptr, nil
			}

			// This page's sub-bitmaps were all full or lost every CAS
			// race this pass: give up our reference and try the next
			// page.
			ref.Unref()
		}

		if phys >= a.virtPageCount {
			return 0, nil
		}
		// Losing the coordFlag CAS does not mean expansion is
		// impossible — another goroutine is already expanding, or just
		// did. Either way a retry from step 1 may now find room, so
		// restart regardless of expand()'s return value. ctx bounds
		// this retry loop for a caller that can't make progress.
		a.expand()
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
}

// scanPage scans page's 16 sub-bitmaps, starting from a hashed index,
// attempting one CAS claim per sub-bitmap. It returns the claimed
// pointer on success.
func (a *Allocator) scanPage(page int) (uintptr, bool) {
	bm := &a.pages[page]
	subStart := int(mixer.Bounded(bitmap.SubmapCount))

	for j := 0; j < bitmap.SubmapCount; j++ {
		sub := (subStart + j) % bitmap.SubmapCount
		slot, ok := bm.TryClaim(sub)
		if !ok {
			a.casRetries.Inc()
			continue
		}
		if slot >= a.slotsPerPage {
			// Defensive: TryClaim should never hand back a sentinel
			// bit, since sentinels start pre-marked used. Undo and
			// treat this sub-bitmap as exhausted.
			s, b := bitmap.SlotIndices(slot)
			bm.Clear(s, b)
			continue
		}
		ptr := a.base + uintptr(page)*pageSize + uintptr(slot)*uintptr(a.objSize)
		return ptr, true
	}
	return 0, false
}
