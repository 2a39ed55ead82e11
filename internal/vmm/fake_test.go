package vmm

import (
	"testing"
	"unsafe"
)

func TestFakeProviderReserveZeroed(t *testing.T) {
	var f FakeProvider
	base, err := f.Reserve(3)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(base)), 3*PageSize)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
}

func TestFakeProviderReleasePageZeroes(t *testing.T) {
	var f FakeProvider
	base, err := f.Reserve(2)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(base)), 2*PageSize)
	b[PageSize] = 0xff // write into page 1

	if err := f.ReleasePage(base, 1); err != nil {
		t.Fatalf("ReleasePage: %v", err)
	}
	if b[PageSize] != 0 {
		t.Fatalf("page 1 byte 0 = %d after ReleasePage, want 0", b[PageSize])
	}
}

func TestFakeProviderReleaseAllUnknown(t *testing.T) {
	var f FakeProvider
	if err := f.ReleaseAll(0x1234, 1); err == nil {
		t.Fatal("ReleaseAll on an unknown base did not error")
	}
}

func TestFakeProviderReservePagesMustBePositive(t *testing.T) {
	var f FakeProvider
	if _, err := f.Reserve(0); err == nil {
		t.Fatal("Reserve(0) did not error")
	}
}
