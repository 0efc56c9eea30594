package kompute

import (
	"unsafe"

	"github.com/imaginationtech/kompute/internal/engine"
)

// Manager is the lifetime root: instance, physical device selection,
// logical device, queues, and weak bookkeeping of issued resources
// for opt-in managed cleanup (spec.md §4.7).
type Manager = engine.Manager

// ManagerOptions configures Manager construction (spec.md §4.7
// construction variants (a)/(b)).
type ManagerOptions = engine.ManagerOptions

// NewManager implements construction variants (a) and (b) of spec.md
// §4.7.
func NewManager(opts ManagerOptions) (*Manager, error) { return engine.NewManager(opts) }

// NewManagerWrapping implements construction variant (c): wrap
// externally-supplied device handles without taking ownership.
var NewManagerWrapping = engine.NewManagerWrapping

// NewTensor is the data-supplying overload of the tensor(...) factory
// (spec.md §6.1): tensor(data, type, memory_class).
func NewTensor(mgr *Manager, data []byte, elemCount int, elemType ElementType, class MemoryClass) (*Tensor, error) {
	return mgr.Tensor(elemCount, elemType, class, data)
}

// NewTensorSize is the size-only overload: tensor(size, type,
// memory_class).
func NewTensorSize(mgr *Manager, elemCount int, elemType ElementType, class MemoryClass) (*Tensor, error) {
	return mgr.Tensor(elemCount, elemType, class, nil)
}

// NewImage is the data-supplying overload of the image(...) factory:
// image(data, W, H, C, type, memory_class, tiling).
func NewImage(mgr *Manager, data []byte, width, height int, ch Channels, elemType ElementType, class MemoryClass, tiling Tiling) (*Image, error) {
	return mgr.Image(width, height, ch, elemType, class, tiling, data)
}

// NewImageSize is the size-only overload: image(W, H, C, type,
// memory_class, tiling).
func NewImageSize(mgr *Manager, width, height int, ch Channels, elemType ElementType, class MemoryClass, tiling Tiling) (*Image, error) {
	return mgr.Image(width, height, ch, elemType, class, tiling, nil)
}

// TypedData reinterprets a Memory object's host-visible mirror as a
// slice of T, the generic equivalent of spec.md §6.1's
// typed_data<T>()/typed_vector<T>(). Fails with host-access-on-storage
// for Storage memory, same as RawHostPointer.
func TypedData[T any](m Memory) ([]T, error) {
	raw, err := m.RawHostPointer()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var zero T
	sz := int(unsafe.Sizeof(zero))
	if sz == 0 || len(raw)%sz != 0 {
		return nil, &Error{Kind: KindTypeMismatch, Op: "TypedData"}
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), len(raw)/sz), nil
}

// SetTypedData writes a slice of T into a Memory object's host-visible
// mirror, the generic equivalent of spec.md §6.1's set_raw_data.
func SetTypedData[T any](m Memory, data []T) error {
	if len(data) == 0 {
		return m.SetHostData(nil)
	}
	var zero T
	sz := int(unsafe.Sizeof(zero))
	b := unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*sz)
	return m.SetHostData(b)
}

// IsAvailable reports whether a WebGPU adapter can be obtained on
// this machine.
func IsAvailable() bool { return engine.IsAvailable() }
