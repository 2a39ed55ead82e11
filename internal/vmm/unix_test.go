//go:build linux || darwin

package vmm

import (
	"testing"
	"unsafe"
)

func TestUnixProviderReserveReadWrite(t *testing.T) {
	var p UnixProvider
	base, err := p.Reserve(2)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	defer p.ReleaseAll(base, 2)

	b := unsafe.Slice((*byte)(unsafe.Pointer(base)), 2*PageSize)
	b[0] = 0x42
	b[PageSize] = 0x43
	if b[0] != 0x42 || b[PageSize] != 0x43 {
		t.Fatal("writes to reserved pages did not persist")
	}
}

func TestUnixProviderReleasePage(t *testing.T) {
	var p UnixProvider
	base, err := p.Reserve(1)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	defer p.ReleaseAll(base, 1)

	if err := p.ReleasePage(base, 0); err != nil {
		t.Fatalf("ReleasePage: %v", err)
	}
}

func TestUnixProviderReserveRejectsNonPositive(t *testing.T) {
	var p UnixProvider
	if _, err := p.Reserve(0); err == nil {
		t.Fatal("Reserve(0) did not error")
	}
}
