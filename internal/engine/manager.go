package engine

import (
	"runtime"
	"sync"
	"weak"

	"github.com/go-webgpu/webgpu/wgpu"
	"golang.org/x/sync/errgroup"
)

// ManagerOptions configures Manager construction, mirroring the
// option-struct style of wgpu.RequestAdapterOptions /
// wgpu.DeviceDescriptor used throughout the teacher's backend.go
// (SPEC_FULL.md §1: "plain Go functional parameters / option
// structs").
type ManagerOptions struct {
	PhysicalDeviceIndex int
	QueueFamilies       []int
	Extensions          []string
	// ManageResources defaults true: the Manager keeps a weak
	// reference to every issued object so Clear() can release
	// caller-dropped resources (spec.md §4.7).
	ManageResources *bool
}

// Manager is the lifetime root of spec.md §4.7: instance, physical
// device selection, logical device, queues, and weak bookkeeping of
// issued resources.
type Manager struct {
	mu sync.Mutex

	device *GPUDevice

	manageResources bool
	tensors         []weak.Pointer[Tensor]
	images          []weak.Pointer[Image]
	algorithms      []weak.Pointer[Algorithm]
	sequences       []weak.Pointer[Sequence]

	// poisoned is set by MarkDeviceLost; every subsequent factory call
	// and Clear then returns KindDeviceLost (spec.md §7: "the Manager
	// enters a poisoned state"). Destroy, DeviceProperties, ListDevices
	// and QueueCount do not check it.
	poisoned bool
}

// NewManager implements construction variants (a) and (b) of spec.md
// §4.7: default or with explicit physical-device index / queue
// families / extensions.
func NewManager(opts ManagerOptions) (*Manager, error) {
	device, err := newDevice(DeviceOptions{
		PhysicalDeviceIndex: opts.PhysicalDeviceIndex,
		QueueFamilies:       opts.QueueFamilies,
		Extensions:          opts.Extensions,
	})
	if err != nil {
		return nil, err
	}
	m := &Manager{device: device, manageResources: true}
	if opts.ManageResources != nil {
		m.manageResources = *opts.ManageResources
	}
	return m, nil
}

// MarkDeviceLost poisons the Manager the way spec.md §7 describes:
// every subsequent factory/Clear call returns KindDeviceLost. The
// WebGPU binding this module targets has no asynchronous device-lost
// notification surface to hook automatically (unlike native Vulkan's
// VK_ERROR_DEVICE_LOST return code), so callers that detect a lost
// device out of band — e.g. a failed Submit — call this explicitly.
func (m *Manager) MarkDeviceLost() {
	m.mu.Lock()
	m.poisoned = true
	m.mu.Unlock()
}

// NewManagerWrapping implements construction variant (c): wrap
// externally-supplied instance/physical-device/logical-device handles
// without taking ownership of them.
func NewManagerWrapping(instance *wgpu.Instance, adapter *wgpu.Adapter, device *wgpu.Device) *Manager {
	return &Manager{device: wrapDevice(instance, adapter, device), manageResources: true}
}

// Device exposes the underlying GPU device bootstrap, used by package
// kompute's NewMult helper to build a Mult Algorithm without widening
// Manager's own public surface beyond spec.md §6.1.
func (m *Manager) Device() *GPUDevice { return m.device }

func (m *Manager) checkAlive(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.poisoned {
		return newErr(op, KindDeviceLost, nil)
	}
	return nil
}

// Tensor implements the tensor(...) factory (spec.md §6.1): both the
// data-supplying and size-only overloads collapse to one Go signature
// with a nilable data slice.
func (m *Manager) Tensor(elemCount int, elemType ElementType, class MemoryClass, data []byte) (*Tensor, error) {
	if err := m.checkAlive("Manager.Tensor"); err != nil {
		return nil, err
	}
	t, err := newTensor(m.device, elemCount, elemType, class, data)
	if err != nil {
		return nil, err
	}
	if m.manageResources {
		m.mu.Lock()
		m.tensors = append(m.tensors, weak.Make(t))
		m.mu.Unlock()
	}
	return t, nil
}

// Image implements the image(...) factory (spec.md §6.1).
func (m *Manager) Image(width, height int, ch Channels, elemType ElementType, class MemoryClass, tiling Tiling, data []byte) (*Image, error) {
	if err := m.checkAlive("Manager.Image"); err != nil {
		return nil, err
	}
	img, err := newImage(m.device, width, height, ch, elemType, class, tiling, data)
	if err != nil {
		return nil, err
	}
	if m.manageResources {
		m.mu.Lock()
		m.images = append(m.images, weak.Make(img))
		m.mu.Unlock()
	}
	return img, nil
}

// Algorithm implements the algorithm(...) factory (spec.md §6.1).
func (m *Manager) Algorithm(spec AlgorithmSpec) (*Algorithm, error) {
	if err := m.checkAlive("Manager.Algorithm"); err != nil {
		return nil, err
	}
	a, err := newAlgorithm(m.device, spec)
	if err != nil {
		return nil, err
	}
	if m.manageResources {
		m.mu.Lock()
		m.algorithms = append(m.algorithms, weak.Make(a))
		m.mu.Unlock()
	}
	return a, nil
}

// Sequence implements the sequence(queue_index, max_timestamps)
// factory (spec.md §6.1).
func (m *Manager) Sequence(queueIndex, maxTimestamps int) (*Sequence, error) {
	if err := m.checkAlive("Manager.Sequence"); err != nil {
		return nil, err
	}
	s := newSequence(m.device, queueIndex, maxTimestamps)
	if m.manageResources {
		m.mu.Lock()
		m.sequences = append(m.sequences, weak.Make(s))
		m.mu.Unlock()
	}
	return s, nil
}

// Clear walks each weak list and drops any entry whose referent has
// already been collected (spec.md §4.7: "drop any whose strong count
// is zero"). Go has no reference counting, so "strong count zero" is
// interpreted as "weak.Pointer.Value() returns nil" — see DESIGN.md's
// resolution of this Open Question. A runtime.GC() call first makes
// that check prompt rather than dependent on whenever the collector
// next happens to run. The four lists are independent, so they are
// swept concurrently via errgroup, grounded on the concurrent
// fan-out shape of the teacher's Batch.Submit in
// internal/backend/webgpu/batch.go.
func (m *Manager) Clear() error {
	if err := m.checkAlive("Manager.Clear"); err != nil {
		return err
	}
	runtime.GC()

	m.mu.Lock()
	tensors, images, algorithms, sequences := m.tensors, m.images, m.algorithms, m.sequences
	m.mu.Unlock()

	var liveTensors []weak.Pointer[Tensor]
	var liveImages []weak.Pointer[Image]
	var liveAlgorithms []weak.Pointer[Algorithm]
	var liveSequences []weak.Pointer[Sequence]

	var g errgroup.Group
	g.Go(func() error {
		liveTensors = sweep(tensors)
		return nil
	})
	g.Go(func() error {
		liveImages = sweep(images)
		return nil
	})
	g.Go(func() error {
		liveAlgorithms = sweep(algorithms)
		return nil
	})
	g.Go(func() error {
		liveSequences = sweep(sequences)
		return nil
	})
	_ = g.Wait()

	m.mu.Lock()
	m.tensors, m.images, m.algorithms, m.sequences = liveTensors, liveImages, liveAlgorithms, liveSequences
	m.mu.Unlock()
	return nil
}

func sweep[T any](list []weak.Pointer[T]) []weak.Pointer[T] {
	out := list[:0]
	for _, w := range list {
		if w.Value() != nil {
			out = append(out, w)
		}
	}
	return out
}

// Destroy drops every managed weak list (forcing destruction of
// anything the Manager holds uniquely by releasing the underlying GPU
// handles of whatever is still live), then destroys the device and
// instance if the Manager created them (spec.md §4.7).
func (m *Manager) Destroy() error {
	m.mu.Lock()
	tensors, images, algorithms, sequences := m.tensors, m.images, m.algorithms, m.sequences
	m.tensors, m.images, m.algorithms, m.sequences = nil, nil, nil, nil
	m.mu.Unlock()

	for _, w := range tensors {
		if t := w.Value(); t != nil {
			t.Release()
		}
	}
	for _, w := range images {
		if img := w.Value(); img != nil {
			img.Release()
		}
	}
	for _, w := range algorithms {
		if a := w.Value(); a != nil {
			a.Destroy()
		}
	}
	for _, w := range sequences {
		if s := w.Value(); s != nil {
			s.Destroy()
		}
	}

	m.device.Destroy()
	return nil
}

// DeviceProperties surfaces the underlying adapter info (spec.md
// §6.1: device_properties()), grounded on Backend.AdapterInfo() in
// the teacher's internal/backend/webgpu/backend.go.
func (m *Manager) DeviceProperties() *wgpu.AdapterInfo {
	return m.device.AdapterInfo()
}

// ListDevices enumerates available adapters the way the teacher's
// ListAdapters() does. WebGPU does not expose multi-adapter
// enumeration today, so this returns the Manager's single active
// adapter wrapped in a slice, the same simplification the teacher
// makes in backend.go — documented here rather than silently stubbed
// (spec.md §4.7 / SPEC_FULL.md §3.7).
func (m *Manager) ListDevices() []*wgpu.AdapterInfo {
	return []*wgpu.AdapterInfo{m.device.AdapterInfo()}
}

// QueueCount exposes how many queue indices sequences can be sharded
// across (spec.md §4.7: "Manager exposes the list so the caller can
// shard work across families").
func (m *Manager) QueueCount() int {
	return len(m.device.Queues)
}
