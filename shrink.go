package slaballoc

// maybeShrink runs after every Free. If usage has dropped under the
// shrink threshold, it attempts to reclaim the last live page's
// physical backing, single-flighted through coordFlag exactly like
// expansion. Shrinkage is best-effort: if another goroutine holds
// coordFlag, or the last page never drains, the page simply stays live and a
// later Free tries again.
func (a *Allocator) maybeShrink() {
	used := a.allocatedSlots.Load()
	capacity := int64(a.physPageCount.Load()) * int64(a.slotsPerPage)
	if used*shrinkThresholdDen > capacity*shrinkThresholdNum {
		return
	}

	if !a.coordFlag.CompareAndSwap(0, 1) {
		return
	}
	defer a.coordFlag.Store(0)

	phys := int(a.physPageCount.Load())
	last := phys - 1
	if last == 0 {
		// Never reclaim the first page.
		return
	}

	ref := &a.refs[last]
	ref.LockDrain()
	// Full fence: either concurrent TryRef callers observe the lock
	// and back out, or they completed before the lock and are already
	// reflected in the reference count we're about to read.
	fence()

	if !ref.Reclaimable() {
		// Unlock on a failed drain rather than stranding the page
		// permanently locked against a future allocation.
		ref.UnlockDrain()
		return
	}

	if err := a.provider.ReleasePage(a.base, last); err != nil {
		a.log.WithFields(map[string]interface{}{
			"page": last,
			"err":  err,
		}).Warn("slaballoc: page release failed, leaving page locked")
		return
	}

	a.physPageCount.Add(-1)
	a.log.WithFields(map[string]interface{}{
		"page":      last,
		"physPages": last,
	}).Info("slaballoc: page shrinkage")
}
