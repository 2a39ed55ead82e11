// Package slaballoc implements a fixed-size object allocator optimized
// for heavily concurrent allocation and deallocation of small objects
// (8 to 4096 bytes). One Allocator instance serves one object size and
// a cap on the physical pages it may use; callers allocate and free
// objects concurrently from any number of goroutines.
//
// The hot paths — Alloc and Free — never block: Alloc is lock-free
// (some caller always makes progress), Free is wait-free (a fixed
// number of atomic operations). Page expansion and shrinkage run
// opportunistically on allocating/freeing goroutines, single-flighted
// through a coordination flag; there is no background worker.
package slaballoc

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/biscuit-os/slaballoc/internal/bitmap"
	"github.com/biscuit-os/slaballoc/internal/diag"
	"github.com/biscuit-os/slaballoc/internal/pageref"
	"github.com/biscuit-os/slaballoc/internal/vmm"
)

const (
	// MinObjSize and MaxObjSize bound the per-instance object size.
	MinObjSize = 8
	MaxObjSize = 4096

	pageSize = vmm.PageSize
)

// Config configures a new Allocator.
type Config struct {
	// ObjSize is the fixed size in bytes of every object this
	// allocator hands out. Must be in [MinObjSize, MaxObjSize].
	ObjSize int

	// MaxPages caps the number of physical pages (virtPageCount) the
	// allocator may ever bring online. Must be >= 1.
	MaxPages int

	// Provider supplies the virtual-memory reservation and reclamation
	// primitives. Defaults to vmm.Default() (real anonymous mmap where
	// supported).
	Provider vmm.Provider

	// Logger receives warnings on rejected Free calls and info events
	// on page expansion/shrinkage. Defaults to logrus.StandardLogger().
	Logger *logrus.Logger
}

// Stats is a point-in-time, non-transactional snapshot of an
// allocator's internal counters.
type Stats struct {
	// PhysPages is the number of pages currently live (online).
	PhysPages int
	// VirtPages is the immutable cap on live pages (Config.MaxPages).
	VirtPages int
	// AllocatedSlots is the exact number of outstanding allocations.
	AllocatedSlots int
}

// Allocator is a single fixed-size slab allocator instance. All
// exported methods are safe for concurrent use by any number of
// goroutines.
type Allocator struct {
	objSize        int
	slotsPerPage   int
	virtPageCount  int
	base           uintptr
	provider       vmm.Provider
	log            *logrus.Logger
	pages          []bitmap.Page
	refs           []pageref.Word
	physPageCount  atomic.Int32
	allocatedSlots atomic.Int64
	coordFlag      atomic.Int32
	casRetries     diag.Counter
}

// New constructs an Allocator for fixed-size objects of cfg.ObjSize
// bytes, reserving virtual space for up to cfg.MaxPages physical
// pages. It returns an error if cfg is invalid or the virtual range
// cannot be reserved.
func New(cfg Config) (*Allocator, error) {
	if cfg.ObjSize < MinObjSize || cfg.ObjSize > MaxObjSize {
		return nil, fmt.Errorf("slaballoc: ObjSize %d out of range [%d, %d]", cfg.ObjSize, MinObjSize, MaxObjSize)
	}
	if cfg.MaxPages < 1 {
		return nil, fmt.Errorf("slaballoc: MaxPages must be >= 1, got %d", cfg.MaxPages)
	}

	provider := cfg.Provider
	if provider == nil {
		provider = vmm.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	base, err := provider.Reserve(cfg.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("slaballoc: %w", err)
	}

	slotsPerPage := pageSize / cfg.ObjSize
	if slotsPerPage > bitmap.MaxSlotsPerPage {
		slotsPerPage = bitmap.MaxSlotsPerPage
	}

	a := &Allocator{
		objSize:       cfg.ObjSize,
		slotsPerPage:  slotsPerPage,
		virtPageCount: cfg.MaxPages,
		base:          base,
		provider:      provider,
		log:           logger,
		pages:         make([]bitmap.Page, cfg.MaxPages),
		refs:          make([]pageref.Word, cfg.MaxPages),
	}

	for i := range a.pages {
		a.pages[i].Init(slotsPerPage)
		a.refs[i].Reset() // born drain-locked
	}
	// Page 0 is always live: publish it by clearing its drain lock.
	a.refs[0].UnlockDrain()
	a.physPageCount.Store(1)

	return a, nil
}

// Close releases the allocator's virtual range and all metadata.
// Close on a nil *Allocator is a no-op. It is undefined behavior to
// call Close while allocations are outstanding.
func (a *Allocator) Close() error {
	if a == nil {
		return nil
	}
	return a.provider.ReleaseAll(a.base, a.virtPageCount)
}

// Stats returns an atomic (but not transactional) snapshot of the
// allocator's counters.
func (a *Allocator) Stats() Stats {
	return Stats{
		PhysPages:      int(a.physPageCount.Load()),
		VirtPages:      a.virtPageCount,
		AllocatedSlots: int(a.allocatedSlots.Load()),
	}
}

// SlotsPerPage returns the number of real (non-sentinel) slots per
// page, derived from ObjSize at construction.
func (a *Allocator) SlotsPerPage() int { return a.slotsPerPage }

// CASRetries returns the number of CAS losses and exhausted-sub-bitmap
// skips Alloc has encountered while diag.Enabled was true; events that
// happen while it is false are not counted. Meant for development
// profiling of contention, not production monitoring.
func (a *Allocator) CASRetries() int64 { return a.casRetries.Load() }
