//go:build linux || darwin

package vmm

// Default returns the platform's real anonymous-mmap-backed Provider.
func Default() Provider { return UnixProvider{} }
