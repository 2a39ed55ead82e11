package slaballoc

// expandThreshold and shrinkThreshold gate the adaptive expansion and
// shrinkage protocol: expand once overall usage crosses half-full
// (leaving headroom before the next page comes online), shrink once
// usage drops under an eighth-full (well below the expand threshold,
// to avoid thrashing between the two).
const (
	expandThresholdNum, expandThresholdDen = 1, 2
	shrinkThresholdNum, shrinkThresholdDen  = 1, 8
)

// maybeExpand runs after every successful Alloc. It brings one more
// page online if the instance has crossed the expansion threshold and
// headroom remains, single-flighted through coordFlag so only one
// goroutine performs the expansion at a time; everyone else backs off
// immediately.
func (a *Allocator) maybeExpand() {
	used := a.allocatedSlots.Load()
	capacity := int64(a.physPageCount.Load()) * int64(a.slotsPerPage)
	if used*expandThresholdDen < capacity*expandThresholdNum {
		return
	}
	a.expand()
}

// expand performs one single-flighted expansion attempt, returning
// true if this call brought a page online, false if every virtual page
// is already live or another goroutine is currently coordinating.
func (a *Allocator) expand() bool {
	if !a.coordFlag.CompareAndSwap(0, 1) {
		return false
	}
	defer a.coordFlag.Store(0)

	phys := a.physPageCount.Load()
	if int(phys) >= a.virtPageCount {
		return false
	}

	n := a.physPageCount.Add(1) - 1
	// The new page's bitmap was pre-initialized at construction with
	// real slots free and sentinels set, and its ref word was born
	// drain-locked; publishing it is exactly an UnlockDrain.
	a.refs[n].UnlockDrain()

	a.log.WithFields(map[string]interface{}{
		"page":      n,
		"physPages": n + 1,
	}).Info("slaballoc: page expansion")
	return true
}
