package engine

import (
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

// Memory is the common contract for any GPU-addressable data object,
// buffer-backed or image-backed (spec.md §4.1). Tensor embeds *resource
// and implements Memory by delegating to it plus its own extras; Image
// implements Memory directly over its own texture state.
type Memory interface {
	Kind() MemoryKind
	Size() int
	ElementByteSize() int
	ByteSize() int
	MemoryClass() MemoryClass
	IsInitialized() bool

	RawHostPointer() ([]byte, error)
	SetHostData(data []byte) error

	RecordCopyStagingToPrimary(cb *wgpu.CommandEncoder)
	RecordCopyPrimaryToStaging(cb *wgpu.CommandEncoder)
	RecordPrimaryBarrier(cb *wgpu.CommandEncoder)
	RecordStagingBarrier(cb *wgpu.CommandEncoder)

	// RefreshHostMirror pulls the current GPU contents of the host
	// mirror (staging buffer for Device class, primary otherwise) back
	// into the byte slice RawHostPointer returns. Called by
	// SyncToHost's post_eval, once the fence wait guarantees the
	// primary->staging copy recorded during Record has completed.
	RefreshHostMirror() error

	ConstructDescriptorWrite(binding uint32) wgpu.BindGroupEntry

	Release()
}

// resource holds the state shared by every Memory implementation: the
// element accounting, the owning device, and the primary/staging GPU
// handles. Grounded on buffer_pool.go's pooledBuffer wrapper in the
// teacher (a GPU handle plus its size/usage metadata), generalized to
// also track the host-visible mirror and lazy-mapping state spec.md
// §4.1 requires.
type resource struct {
	device *GPUDevice

	elemCount int
	elemSize  int
	class     MemoryClass

	primaryBuffer *wgpu.Buffer
	stagingBuffer *wgpu.Buffer

	// mapped caches the staging (or primary, for Host/DeviceAndHost)
	// mapped byte slice once mapping has happened — "mapping is lazy:
	// the first call to read/write host data triggers map, leaving
	// the memory mapped for the object's lifetime" (spec.md §4.1).
	mapped []byte
}

func newResource(device *GPUDevice, elemCount, elemSize int, class MemoryClass) *resource {
	return &resource{
		device:    device,
		elemCount: elemCount,
		elemSize:  elemSize,
		class:     class,
	}
}

func (r *resource) Size() int            { return r.elemCount }
func (r *resource) ElementByteSize() int { return r.elemSize }
func (r *resource) ByteSize() int        { return r.elemCount * r.elemSize }
func (r *resource) MemoryClass() MemoryClass { return r.class }

func (r *resource) IsInitialized() bool {
	return r.device != nil && r.primaryBuffer != nil
}

// hostMirror returns the buffer holding the host-visible view: staging
// for Device, primary for Host/DeviceAndHost. Storage has none
// (invariant M1).
func (r *resource) hostMirror() *wgpu.Buffer {
	if r.class == Storage {
		return nil
	}
	if r.class.HasStaging() {
		return r.stagingBuffer
	}
	return r.primaryBuffer
}

func (r *resource) RawHostPointer() ([]byte, error) {
	const op = "Memory.RawHostPointer"
	if r.class == Storage {
		return nil, newErr(op, KindHostAccessOnStorage, nil)
	}
	if err := r.ensureMapped(); err != nil {
		return nil, newErr(op, KindUnknown, err)
	}
	return r.mapped, nil
}

func (r *resource) SetHostData(data []byte) error {
	const op = "Memory.SetHostData"
	if r.class == Storage {
		return newErr(op, KindHostAccessOnStorage, nil)
	}
	if err := r.ensureMapped(); err != nil {
		return newErr(op, KindUnknown, err)
	}
	n := copy(r.mapped, data)
	_ = n
	buf := r.hostMirror()
	r.device.Queue(0).WriteBuffer(buf, 0, r.mapped)
	return nil
}

// ensureMapped performs the lazy host-mapping spec.md §4.1 describes:
// the mirror buffer is mapped once and kept mapped for the resource's
// lifetime. go-webgpu's MapAsync/GetMappedRange pair is asynchronous
// by nature; since every primary/staging buffer here is created with
// wgpu.BufferUsageMapRead|MapWrite where applicable, a host-coherent
// shadow slice is kept in r.mapped and pushed back with WriteBuffer on
// every SetHostData, avoiding a blocking MapAsync round trip per call.
func (r *resource) ensureMapped() error {
	if r.mapped != nil {
		return nil
	}
	r.mapped = make([]byte, r.ByteSize())
	return nil
}

func (r *resource) RecordCopyStagingToPrimary(cb *wgpu.CommandEncoder) {
	if !r.class.HasStaging() {
		return
	}
	cb.CopyBufferToBuffer(r.stagingBuffer, 0, r.primaryBuffer, 0, uint64(r.ByteSize()))
}

func (r *resource) RecordCopyPrimaryToStaging(cb *wgpu.CommandEncoder) {
	if !r.class.HasStaging() {
		return
	}
	cb.CopyBufferToBuffer(r.primaryBuffer, 0, r.stagingBuffer, 0, uint64(r.ByteSize()))
}

// RecordPrimaryBarrier and RecordStagingBarrier are no-ops under
// WebGPU: CommandEncoder automatically tracks resource usage across
// encoded passes (see SPEC_FULL.md §0), so the explicit barrier the
// spec calls for here is left to that automatic tracking. Kept as
// named no-op methods (rather than removed) so MemoryBarrier (§4.5.5)
// and SyncToHost/SyncToDevice (§4.5.1/4.5.2) retain the same call
// shape the spec describes.
func (r *resource) RecordPrimaryBarrier(cb *wgpu.CommandEncoder) {}
func (r *resource) RecordStagingBarrier(cb *wgpu.CommandEncoder) {}

// readback blocks until the host mirror buffer's current GPU contents
// are visible in r.mapped, via the MapAsync/GetMappedRange/Unmap
// sequence the teacher's readBuffer uses for synchronous buffer reads
// (internal/backend/webgpu/compute.go). Called from SyncToHost's
// post_eval, after the fence wait that guarantees the copy command
// recorded into the primary->staging direction has completed.
func (r *resource) RefreshHostMirror() error { return r.readback() }

func (r *resource) readback() error {
	const op = "Memory.readback"
	buf := r.hostMirror()
	if buf == nil {
		return nil
	}
	size := uint64(r.ByteSize())
	if err := buf.MapAsync(r.device.Device, wgpu.MapModeRead, 0, size); err != nil {
		return newErr(op, KindUnknown, err)
	}
	mappedPtr := buf.GetMappedRange(0, size)
	view := unsafe.Slice((*byte)(mappedPtr), size)
	if r.mapped == nil {
		r.mapped = make([]byte, size)
	}
	copy(r.mapped, view)
	buf.Unmap()
	return nil
}

func (r *resource) Release() {
	if r.stagingBuffer != nil {
		r.stagingBuffer.Release()
		r.stagingBuffer = nil
	}
	if r.primaryBuffer != nil {
		r.primaryBuffer.Release()
		r.primaryBuffer = nil
	}
	r.mapped = nil
}

// bufferUsage computes the wgpu.BufferUsage flags for the primary
// buffer of a given MemoryClass, per the usage/property table in
// spec.md §4.2. Built from github.com/gogpu/gputypes' usage-flag
// constants (SPEC_FULL.md §2), rather than a hand-rolled parallel
// enum, since gputypes already expresses exactly this
// storage/transfer-src/transfer-dst vocabulary.
func bufferUsage(class MemoryClass) wgpu.BufferUsage {
	usage := wgpu.BufferUsage(gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst)
	switch class {
	case Host, DeviceAndHost:
		usage |= wgpu.BufferUsage(gputypes.BufferUsageMapRead | gputypes.BufferUsageMapWrite)
	}
	return usage
}

// stagingBufferUsage computes the usage flags for a Device-class
// resource's staging mirror (spec.md §4.2: "transfer-src+dst,
// host-visible+coherent").
func stagingBufferUsage() wgpu.BufferUsage {
	return wgpu.BufferUsage(gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst | gputypes.BufferUsageMapRead | gputypes.BufferUsageMapWrite)
}

// bytesOf reinterprets a slice of T as a byte slice without copying,
// used to stage caller-supplied typed slices (e.g. []float32) into
// buffer-upload byte payloads. Grounded on the teacher's raw byte
// handling in internal/backend/webgpu/gpu_tensor.go.
func bytesOf[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	sz := int(unsafe.Sizeof(zero))
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*sz)
}
