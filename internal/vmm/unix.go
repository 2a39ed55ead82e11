//go:build linux || darwin

package vmm

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// UnixProvider reserves memory via anonymous mmap and reclaims pages
// via MADV_FREE (Linux) — the real-world virtual memory collaborator
// the allocator expects. It is the default Provider wired into
// slaballoc.New.
type UnixProvider struct{}

// Reserve maps pages*PageSize bytes of anonymous, zero-filled,
// read/write memory and returns its base address.
func (UnixProvider) Reserve(pages int) (uintptr, error) {
	if pages <= 0 {
		return 0, fmt.Errorf("vmm: pages must be > 0, got %d", pages)
	}
	size := pages * PageSize
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, &ErrReserve{Pages: pages, Err: err}
	}
	return uintptr(unsafe.Pointer(&b[0])), nil
}

// ReleasePage issues the MADV_FREE-equivalent advisory for a single
// page of a previously reserved range. Best-effort: an error here
// leaves the page live rather than corrupting the mapping.
func (UnixProvider) ReleasePage(base uintptr, page int) error {
	addr := base + uintptr(page*PageSize)
	b := unsafe.Slice((*byte)(unsafe.Pointer(addr)), PageSize)
	return unix.Madvise(b, unix.MADV_FREE)
}

// ReleaseAll unmaps the entire reservation.
func (UnixProvider) ReleaseAll(base uintptr, pages int) error {
	size := pages * PageSize
	b := unsafe.Slice((*byte)(unsafe.Pointer(base)), size)
	return unix.Munmap(b)
}
