package engine

import "github.com/go-webgpu/webgpu/wgpu"

// Debug is the package-level diagnostics switch (SPEC_FULL.md §1's
// ambient-stack logging section), mirroring the package-level Debug
// flag used across cogentcore/core/gpu's gpu/compute.go and
// gpu/vars.go. No code in this package reads it, so setting it
// produces no output.
var Debug = false

// IsAvailable reports whether a WebGPU adapter can be obtained on
// this machine, used by tests to skip GPU-touching cases the way the
// teacher's backend/webgpu.IsAvailable() does.
func IsAvailable() bool {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return false
	}
	defer instance.Release()
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{})
	if err != nil || adapter == nil {
		return false
	}
	adapter.Release()
	return true
}
