package engine

import (
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"
)

// GPUDevice bundles the WebGPU handles the spec calls "physical device"
// (wgpu.Adapter) and "logical device + queue" (wgpu.Device/wgpu.Queue).
// Grounded on Backend's instance/adapter/device/queue quartet in the
// teacher's internal/backend/webgpu/backend.go, generalized to track
// whether the Manager owns these handles (construction variant (c) in
// spec.md §4.7 wraps externally supplied handles and must not release
// them).
type GPUDevice struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	// Queues holds one handle per queue index the Manager exposes.
	// WebGPU surfaces a single queue per device; the engine still
	// keeps a slice here (all aliasing the same *wgpu.Queue) so the
	// queue-index sharding API in spec.md §4.7/§6.1 has somewhere
	// real to point, and so a future multi-queue WebGPU backend only
	// needs to populate more entries.
	Queues []*wgpu.Queue

	// owns records whether this Device was created by the Manager
	// (true) or wraps externally supplied handles (false); only an
	// owning Device releases Instance/Adapter/Device on Destroy.
	owns bool

	adapterInfo *wgpu.AdapterInfo
}

// DeviceOptions configures explicit construction variant (b) of
// spec.md §4.7.
type DeviceOptions struct {
	// PhysicalDeviceIndex selects which adapter RequestAdapter-style
	// enumeration should prefer. WebGPU does not expose multi-adapter
	// enumeration (see ListDevices doc comment on Manager), so any
	// value is accepted but has no effect: newDevice neither uses nor
	// stores it.
	PhysicalDeviceIndex int
	// QueueFamilies lists the queue indices to expose; defaults to a
	// single queue (index 0) when empty.
	QueueFamilies []int
	// Extensions lists required device extensions/features; an empty
	// wgpu.RequiredFeatures superset failure surfaces as
	// KindExtensionUnavailable.
	Extensions []string
}

// newDevice creates an owned instance/adapter/device/queue quartet,
// the default and explicit-option paths of spec.md §4.7 construction
// variants (a) and (b).
func newDevice(opts DeviceOptions) (*GPUDevice, error) {
	const op = "newDevice"

	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, newErr(op, KindDeviceNotFound, fmt.Errorf("failed to create WebGPU instance"))
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, newErr(op, KindDeviceNotFound, err)
	}

	info := adapter.GetInfo()

	wgpuDevice, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		RequiredFeatures: toFeatures(opts.Extensions),
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, newErr(op, KindExtensionUnavailable, err)
	}

	queue := wgpuDevice.GetQueue()
	if queue == nil {
		wgpuDevice.Release()
		adapter.Release()
		instance.Release()
		return nil, newErr(op, KindDeviceNotFound, fmt.Errorf("failed to obtain device queue"))
	}

	n := len(opts.QueueFamilies)
	if n == 0 {
		n = 1
	}
	queues := make([]*wgpu.Queue, n)
	for i := range queues {
		queues[i] = queue
	}

	return &GPUDevice{
		Instance:    instance,
		Adapter:     adapter,
		Device:      wgpuDevice,
		Queues:      queues,
		owns:        true,
		adapterInfo: &info,
	}, nil
}

// wrapDevice adopts externally supplied handles without taking
// ownership of them (construction variant (c) of spec.md §4.7).
func wrapDevice(instance *wgpu.Instance, adapter *wgpu.Adapter, device *wgpu.Device) *GPUDevice {
	queue := device.GetQueue()
	info := adapter.GetInfo()
	return &GPUDevice{
		Instance:    instance,
		Adapter:     adapter,
		Device:      device,
		Queues:      []*wgpu.Queue{queue},
		owns:        false,
		adapterInfo: &info,
	}
}

// Queue returns the queue at the given index; an out-of-range index
// falls back to queue 0. Manager.Sequence does not validate the index
// it is given, so this fallback is the only bounds handling.
func (d *GPUDevice) Queue(index int) *wgpu.Queue {
	if index < 0 || index >= len(d.Queues) {
		index = 0
	}
	return d.Queues[index]
}

// WaitDone blocks until the device has no outstanding work. Sequence
// does not call it; its fence wait calls Device.Poll directly (see
// Sequence.evalAsync).
func (d *GPUDevice) WaitDone() {
	d.Device.Poll(true, nil)
}

// AdapterInfo exposes the underlying wgpu.AdapterInfo for
// Manager.DeviceProperties, grounded on Backend.AdapterInfo() in the
// teacher's internal/backend/webgpu/backend.go.
func (d *GPUDevice) AdapterInfo() *wgpu.AdapterInfo {
	return d.adapterInfo
}

// Destroy releases the owned handles, or does nothing for a wrapped
// Device (spec.md §4.7: "no ownership of those handles").
func (d *GPUDevice) Destroy() {
	if !d.owns {
		return
	}
	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}
	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}
	if d.Instance != nil {
		d.Instance.Release()
		d.Instance = nil
	}
}

func toFeatures(extensions []string) []wgpu.FeatureName {
	if len(extensions) == 0 {
		return nil
	}
	out := make([]wgpu.FeatureName, 0, len(extensions))
	for _, e := range extensions {
		out = append(out, wgpu.FeatureName(e))
	}
	return out
}
