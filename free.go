package slaballoc

import (
	"github.com/biscuit-os/slaballoc/internal/bitmap"
	"github.com/biscuit-os/slaballoc/internal/util"
)

// Free releases the slot pointed to by ptr back to the allocator. A
// foreign pointer (outside this instance's virtual range, or not
// aligned to a real slot) is rejected: Free logs a warning and returns
// without touching any state. Free is wait-free: a fixed, small number
// of atomic operations, no loops.
func (a *Allocator) Free(ptr uintptr) {
	if ptr == 0 {
		return
	}

	page, slot, ok := a.locate(ptr)
	if !ok {
		a.log.WithFields(map[string]interface{}{
			"ptr":  ptr,
			"base": a.base,
		}).Warn("slaballoc: Free of foreign pointer rejected")
		return
	}

	sub, bit := bitmap.SlotIndices(slot)
	a.pages[page].Clear(sub, bit)
	a.allocatedSlots.Add(-1)
	a.refs[page].Unref() // matches the acquire Alloc left outstanding
	a.maybeShrink()
}

// locate derives (page, slot) from a pointer into this instance's
// virtual range, rejecting anything outside it or misaligned to a
// real slot.
func (a *Allocator) locate(ptr uintptr) (page, slot int, ok bool) {
	if ptr < a.base {
		return 0, 0, false
	}
	diff := ptr - a.base
	if diff >= uintptr(a.virtPageCount)*pageSize {
		return 0, 0, false
	}

	page = int(diff / pageSize)
	offset := diff - util.Rounddown(diff, uintptr(pageSize))
	if int(offset)%a.objSize != 0 {
		return 0, 0, false
	}

	slot = int(offset) / a.objSize
	if slot >= a.slotsPerPage {
		return 0, 0, false
	}
	return page, slot, true
}
