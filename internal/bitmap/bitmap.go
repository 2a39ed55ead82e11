// Package bitmap implements the per-page slot bitmap: 16 atomically
// accessed 32-bit words, one bit per slot, interleaved across words so
// that adjacent allocations land on different cachelines of the
// metadata.
package bitmap

import (
	"math/bits"
	"sync/atomic"
)

// SubmapCount is the fixed number of sub-bitmap words per page.
const SubmapCount = 16

// MaxSlotsPerPage is the total addressable slot count per page
// (SubmapCount * 32 bits per word). Real pages with fewer slots than
// this have the excess pre-marked as used (sentinel bits).
const MaxSlotsPerPage = SubmapCount * 32

// allOnes marks every bit in a word used.
const allOnes uint32 = 0xFFFFFFFF

// Page is one page's slot bitmap: SubmapCount atomic words, exactly
// 64 bytes (one cacheline) wide so that an array of Pages keeps each
// page's bitmap on its own line. Bit b of word s corresponds to slot
// index b*16 + s (slots are interleaved across sub-bitmaps).
type Page struct {
	words [SubmapCount]atomic.Uint32
}

// Init sets up a page's bitmap for realSlots real, initially-free
// slots out of MaxSlotsPerPage total. Every slot at or beyond
// realSlots is pre-marked used (bit = 1) and is never touched again —
// it has no corresponding physical object.
func (p *Page) Init(realSlots int) {
	if realSlots < 0 || realSlots > MaxSlotsPerPage {
		panic("bitmap: realSlots out of range")
	}
	for s := 0; s < SubmapCount; s++ {
		p.words[s].Store(0)
	}
	for slot := realSlots; slot < MaxSlotsPerPage; slot++ {
		sub := slot % SubmapCount
		bit := slot / SubmapCount
		p.words[sub].Or(uint32(1) << uint(bit))
	}
}

// Load atomically reads sub-bitmap word sub.
func (p *Page) Load(sub int) uint32 {
	return p.words[sub].Load()
}

// TryClaim attempts to claim the lowest free bit in sub-bitmap sub via
// CAS. It returns the claimed slot index and true on success. On CAS
// failure (another allocator won the race) or if the word is already
// full, it returns false without retrying — the caller moves on to a
// different sub-bitmap, which is what keeps the allocator lock-free.
func (p *Page) TryClaim(sub int) (slot int, ok bool) {
	word := p.words[sub].Load()
	if word == allOnes {
		return 0, false
	}
	bit := bits.TrailingZeros32(^word)
	if bit >= 32 {
		return 0, false
	}
	newWord := word | (uint32(1) << uint(bit))
	if !p.words[sub].CompareAndSwap(word, newWord) {
		return 0, false
	}
	return bit*SubmapCount + sub, true
}

// Clear atomically frees the slot at sub-bitmap sub, bit index bit.
func (p *Page) Clear(sub, bit int) {
	p.words[sub].And(^(uint32(1) << uint(bit)))
}

// SlotIndices converts a flat slot index into its (sub, bit) bitmap
// coordinates, the inverse of the b*16+s addressing used by TryClaim.
func SlotIndices(slot int) (sub, bit int) {
	return slot % SubmapCount, slot / SubmapCount
}

// PopCount returns the number of set (used) bits across all sub-bitmap
// words of the page, including sentinel bits. Used for quiescent
// bitmap/counter consistency checks; not safe to read as a live
// invariant under concurrent mutation.
func (p *Page) PopCount() int {
	n := 0
	for s := 0; s < SubmapCount; s++ {
		n += bits.OnesCount32(p.words[s].Load())
	}
	return n
}
