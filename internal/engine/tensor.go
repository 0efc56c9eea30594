package engine

import (
	"github.com/go-webgpu/webgpu/wgpu"
)

// Tensor is a linear typed array in a GPU buffer (spec.md §4.2,
// "buffer-backed Memory"). It implements Memory by embedding
// *resource and adding the buffer-copy variant of record_copy_from.
type Tensor struct {
	*resource
	elemType ElementType
}

var _ Memory = (*Tensor)(nil)

// newTensor allocates the primary buffer (and, for Device class, the
// staging buffer) per the usage/property table in spec.md §4.2, then
// uploads data if supplied.
func newTensor(device *GPUDevice, elemCount int, elemType ElementType, class MemoryClass, data []byte) (*Tensor, error) {
	const op = "Manager.Tensor"
	if elemCount <= 0 {
		return nil, newErr(op, KindZeroSizedResource, nil)
	}
	elemSize := elemType.Bytes()
	if elemType == Custom {
		elemSize = len(data) / elemCount
		if elemSize == 0 {
			elemSize = 1
		}
	}
	byteSize := elemCount * elemSize

	r := newResource(device, elemCount, elemSize, class)

	r.primaryBuffer = device.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "kompute.tensor.primary",
		Usage: bufferUsage(class),
		Size:  uint64(byteSize),
	})
	if r.primaryBuffer == nil {
		return nil, newErr(op, KindNoCompatibleMemoryType, nil)
	}

	if class.HasStaging() {
		r.stagingBuffer = device.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "kompute.tensor.staging",
			Usage: stagingBufferUsage(),
			Size:  uint64(byteSize),
		})
		if r.stagingBuffer == nil {
			r.primaryBuffer.Release()
			return nil, newErr(op, KindNoCompatibleMemoryType, nil)
		}
	}

	t := &Tensor{resource: r, elemType: elemType}

	if data != nil {
		if err := t.SetHostData(data); err != nil {
			t.Release()
			return nil, err
		}
		// Device-class tensors stage through the staging mirror;
		// Host/DeviceAndHost write straight to the mappable primary.
		// Either way the caller still must record SyncToDevice before
		// a shader reads it, per spec.md §4.5.1.
	}

	return t, nil
}

func (t *Tensor) Kind() MemoryKind { return TensorKind }

func (t *Tensor) ElementType() ElementType { return t.elemType }

// ConstructDescriptorWrite produces a storage-buffer binding (spec.md
// §4.1/§4.2: "the primary buffer's descriptor write uses type storage
// buffer").
func (t *Tensor) ConstructDescriptorWrite(binding uint32) wgpu.BindGroupEntry {
	return wgpu.BindGroupEntry{
		Binding: binding,
		Buffer:  t.primaryBuffer,
		Offset:  0,
		Size:    uint64(t.ByteSize()),
	}
}

// RecordCopyFromTensor emits a buffer-copy of min(this.byte_size,
// other.byte_size) from other's primary into this one's (spec.md
// §4.2: "record_copy_from(cb, other Buffer)").
func (t *Tensor) RecordCopyFromTensor(cb *wgpu.CommandEncoder, other *Tensor) {
	n := t.ByteSize()
	if other.ByteSize() < n {
		n = other.ByteSize()
	}
	cb.CopyBufferToBuffer(other.primaryBuffer, 0, t.primaryBuffer, 0, uint64(n))
}

// RecordCopyFromImage emits an image-to-buffer copy of other's extent
// (spec.md §4.2: "record_copy_from(cb, other Image): emit an
// image-to-buffer copy of other's extent").
func (t *Tensor) RecordCopyFromImage(cb *wgpu.CommandEncoder, other *Image) {
	cb.CopyTextureToBuffer(
		wgpu.TexelCopyTextureInfo{Texture: other.primaryTexture},
		wgpu.TexelCopyBufferInfo{
			Buffer:       t.primaryBuffer,
			BytesPerRow:  uint32(other.width * other.elemType.Bytes() * channelCount(other.channels)),
			RowsPerImage: uint32(other.height),
		},
		wgpu.Extent3D{Width: uint32(other.width), Height: uint32(other.height), DepthOrArrayLayers: 1},
	)
}
