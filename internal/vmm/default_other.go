//go:build !linux && !darwin

package vmm

// Default returns a heap-backed Provider on platforms without a real
// anonymous-mmap binding wired up. Callers that need the real thing on
// an unsupported OS must supply their own Provider.
func Default() Provider { return &FakeProvider{} }
