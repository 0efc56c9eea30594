package engine

import (
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
)

// Image is a 2D typed image with 1, 2 or 4 channels (spec.md §4.3,
// "image-backed Memory"). Unlike Tensor it cannot simply embed
// *resource: its primary/staging resources are wgpu.Texture objects
// with their own layout state (invariant I2), and WebGPU textures are
// never directly host-mappable, so the host mirror is materialized
// into a byte buffer on demand via CopyTextureToBuffer/WriteTexture
// rather than a persistent MapAsync range.
type Image struct {
	device *GPUDevice

	width, height int
	channels      Channels
	elemType      ElementType
	class         MemoryClass
	tiling        Tiling
	format        wgpu.TextureFormat

	primaryTexture *wgpu.Texture
	primaryLayout  Layout

	stagingTexture *wgpu.Texture
	stagingLayout  Layout

	// mapped caches the host-visible mirror bytes once a readback has
	// happened, mirroring the lazy-mapping policy *resource uses for
	// Tensor (spec.md §4.1).
	mapped []byte
}

var _ Memory = (*Image)(nil)

// newImage allocates the primary texture (and, for Device class, a
// staging texture) and uploads data if supplied. The tiling argument
// is checked against invariant I1 and reported by Tiling(), but it
// does not change how either texture is created: neither texture is
// given a linear or optimal layout.
func newImage(device *GPUDevice, width, height int, ch Channels, elemType ElementType, class MemoryClass, tiling Tiling, data []byte) (*Image, error) {
	const op = "Manager.Image"

	if width <= 0 || height <= 0 {
		return nil, newErr(op, KindZeroSizedResource, nil)
	}
	// Invariant I1: linear tiling only for Device and Storage.
	if tiling == Linear && class != Device && class != Storage {
		return nil, newErr(op, KindInvalidTilingForMemoryClass, nil)
	}

	format, err := textureFormat(elemType, ch)
	if err != nil {
		return nil, err
	}

	usage := textureUsage(class)

	primary := device.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     "kompute.image.primary",
		Size:      wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		Format:    format,
		Usage:     usage,
		Dimension:  wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if primary == nil {
		return nil, newErr(op, KindNoCompatibleMemoryType, nil)
	}

	img := &Image{
		device:        device,
		width:         width,
		height:        height,
		channels:      ch,
		elemType:      elemType,
		class:         class,
		tiling:        tiling,
		format:        format,
		primaryTexture: primary,
		primaryLayout: LayoutUndefined,
	}

	if class.HasStaging() {
		staging := device.Device.CreateTexture(&wgpu.TextureDescriptor{
			Label:      "kompute.image.staging",
			Size:       wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
			Format:     format,
			Usage:      textureUsage(class) | wgpu.TextureUsageCopySrc | wgpu.TextureUsageCopyDst,
			Dimension:  wgpu.TextureDimension2D,
			MipLevelCount: 1,
			SampleCount:   1,
		})
		if staging == nil {
			primary.Release()
			return nil, newErr(op, KindNoCompatibleMemoryType, nil)
		}
		img.stagingTexture = staging
		img.stagingLayout = LayoutUndefined
	}

	if data != nil {
		if err := img.SetHostData(data); err != nil {
			img.Release()
			return nil, err
		}
	}

	return img, nil
}

// textureUsage returns the wgpu.TextureUsage flags for an Image's
// primary texture: storage binding plus copy source and destination,
// the same for every MemoryClass (WebGPU textures are never mappable,
// so there are no map flags to add per class as bufferUsage does).
func textureUsage(class MemoryClass) wgpu.TextureUsage {
	usage := wgpu.TextureUsageStorageBinding | wgpu.TextureUsageCopySrc | wgpu.TextureUsageCopyDst
	return usage
}

func (img *Image) Kind() MemoryKind { return ImageKind }

func (img *Image) Size() int { return img.width * img.height * channelCount(img.channels) }

func (img *Image) ElementByteSize() int { return img.elemType.Bytes() }

func (img *Image) ByteSize() int { return img.Size() * img.ElementByteSize() }

func (img *Image) MemoryClass() MemoryClass { return img.class }

func (img *Image) IsInitialized() bool {
	return img.device != nil && img.primaryTexture != nil
}

func (img *Image) Width() int         { return img.width }
func (img *Image) Height() int        { return img.height }
func (img *Image) Channels() Channels { return img.channels }
func (img *Image) DataType() ElementType { return img.elemType }
func (img *Image) Tiling() Tiling     { return img.tiling }

func (img *Image) hostMirrorTexture() *wgpu.Texture {
	if img.class == Storage {
		return nil
	}
	if img.class.HasStaging() {
		return img.stagingTexture
	}
	return img.primaryTexture
}

func (img *Image) bytesPerRow() uint32 {
	return uint32(img.width * img.ElementByteSize() * channelCount(img.channels))
}

func (img *Image) RawHostPointer() ([]byte, error) {
	const op = "Image.RawHostPointer"
	if img.class == Storage {
		return nil, newErr(op, KindHostAccessOnStorage, nil)
	}
	if img.mapped == nil {
		img.mapped = make([]byte, img.ByteSize())
	}
	return img.mapped, nil
}

func (img *Image) SetHostData(data []byte) error {
	const op = "Image.SetHostData"
	if img.class == Storage {
		return newErr(op, KindHostAccessOnStorage, nil)
	}
	if img.mapped == nil {
		img.mapped = make([]byte, img.ByteSize())
	}
	copy(img.mapped, data)
	mirror := img.hostMirrorTexture()
	img.device.Queue(0).WriteTexture(
		wgpu.TexelCopyTextureInfo{Texture: mirror},
		img.mapped,
		wgpu.TexelCopyBufferLayout{BytesPerRow: img.bytesPerRow(), RowsPerImage: uint32(img.height)},
		wgpu.Extent3D{Width: uint32(img.width), Height: uint32(img.height), DepthOrArrayLayers: 1},
	)
	return nil
}

// RecordCopyStagingToPrimary copies staging -> primary for Device
// class only (spec.md §4.1).
func (img *Image) RecordCopyStagingToPrimary(cb *wgpu.CommandEncoder) {
	if !img.class.HasStaging() {
		return
	}
	cb.CopyTextureToTexture(
		wgpu.TexelCopyTextureInfo{Texture: img.stagingTexture},
		wgpu.TexelCopyTextureInfo{Texture: img.primaryTexture},
		wgpu.Extent3D{Width: uint32(img.width), Height: uint32(img.height), DepthOrArrayLayers: 1},
	)
}

func (img *Image) RecordCopyPrimaryToStaging(cb *wgpu.CommandEncoder) {
	if !img.class.HasStaging() {
		return
	}
	cb.CopyTextureToTexture(
		wgpu.TexelCopyTextureInfo{Texture: img.primaryTexture},
		wgpu.TexelCopyTextureInfo{Texture: img.stagingTexture},
		wgpu.Extent3D{Width: uint32(img.width), Height: uint32(img.height), DepthOrArrayLayers: 1},
	)
}

// RecordPrimaryBarrier / RecordStagingBarrier perform the layout
// transition invariant I2 describes: "every recorded barrier on an
// image transitions (old_layout -> general)... after the barrier the
// object's tracked layout is updated to general." WebGPU has no
// explicit layout-transition call; the transition is tracked here
// purely as engine-side bookkeeping so MemoryBarrier/Copy call sites
// observe the same state machine the spec requires, while the actual
// device-side ordering comes from WebGPU's automatic resource-usage
// tracking (SPEC_FULL.md §0).
func (img *Image) RecordPrimaryBarrier(cb *wgpu.CommandEncoder) {
	img.primaryLayout = LayoutGeneral
}

func (img *Image) RecordStagingBarrier(cb *wgpu.CommandEncoder) {
	img.stagingLayout = LayoutGeneral
}

// PrimaryLayout and StagingLayout expose the tracked layout state,
// used by tests asserting invariant I2.
func (img *Image) PrimaryLayout() Layout { return img.primaryLayout }
func (img *Image) StagingLayout() Layout { return img.stagingLayout }

// RefreshHostMirror pulls the current contents of the host mirror
// texture back into img.mapped via a standalone copy-to-buffer submit
// plus a synchronous map, the same MapAsync/Poll/GetMappedRange/Unmap
// sequence resource.readback uses for Tensor (grounded on the same
// pack call sites; texture readback needs its own intermediate buffer
// since WebGPU textures are never directly mappable).
func (img *Image) RefreshHostMirror() error {
	const op = "Image.RefreshHostMirror"
	mirror := img.hostMirrorTexture()
	if mirror == nil {
		return nil
	}

	size := uint64(img.ByteSize())
	readback := img.device.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "kompute.image.readback",
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
		Size:  size,
	})
	if readback == nil {
		return newErr(op, KindNoCompatibleMemoryType, nil)
	}
	defer readback.Release()

	enc := img.device.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "kompute.image.readback-encoder"})
	enc.CopyTextureToBuffer(
		wgpu.TexelCopyTextureInfo{Texture: mirror},
		wgpu.TexelCopyBufferInfo{Buffer: readback, BytesPerRow: img.bytesPerRow(), RowsPerImage: uint32(img.height)},
		wgpu.Extent3D{Width: uint32(img.width), Height: uint32(img.height), DepthOrArrayLayers: 1},
	)
	cb := enc.Finish(nil)
	img.device.Queue(0).Submit(cb)

	if err := readback.MapAsync(img.device.Device, wgpu.MapModeRead, 0, size); err != nil {
		return newErr(op, KindUnknown, err)
	}
	mappedPtr := readback.GetMappedRange(0, size)
	view := unsafe.Slice((*byte)(mappedPtr), size)
	if img.mapped == nil {
		img.mapped = make([]byte, size)
	}
	copy(img.mapped, view)
	readback.Unmap()
	return nil
}

// ConstructDescriptorWrite produces a storage-image binding (spec.md
// §4.1: "or storage image as appropriate").
func (img *Image) ConstructDescriptorWrite(binding uint32) wgpu.BindGroupEntry {
	return wgpu.BindGroupEntry{
		Binding:     binding,
		TextureView: img.primaryTexture.CreateView(nil),
	}
}

// RecordCopyFromImage emits a pair of barriers (transitioning either
// side out of Undefined) followed by an image copy sized to other's
// extent (spec.md §4.3: "Copies" — extents are not verified to match,
// see DESIGN.md open question O1).
func (img *Image) RecordCopyFromImage(cb *wgpu.CommandEncoder, other *Image) {
	if img.primaryLayout == LayoutUndefined {
		img.RecordPrimaryBarrier(cb)
	}
	if other.primaryLayout == LayoutUndefined {
		other.RecordPrimaryBarrier(cb)
	}
	cb.CopyTextureToTexture(
		wgpu.TexelCopyTextureInfo{Texture: other.primaryTexture},
		wgpu.TexelCopyTextureInfo{Texture: img.primaryTexture},
		wgpu.Extent3D{Width: uint32(other.width), Height: uint32(other.height), DepthOrArrayLayers: 1},
	)
}

// RecordCopyFromTensor emits a buffer-to-image copy of this image's
// own extent (the BufferCopyToImage cross-kind operation, §4.5.4).
func (img *Image) RecordCopyFromTensor(cb *wgpu.CommandEncoder, other *Tensor) {
	cb.CopyBufferToTexture(
		wgpu.TexelCopyBufferInfo{
			Buffer:       other.primaryBuffer,
			BytesPerRow:  img.bytesPerRow(),
			RowsPerImage: uint32(img.height),
		},
		wgpu.TexelCopyTextureInfo{Texture: img.primaryTexture},
		wgpu.Extent3D{Width: uint32(img.width), Height: uint32(img.height), DepthOrArrayLayers: 1},
	)
}

func (img *Image) Release() {
	if img.stagingTexture != nil {
		img.stagingTexture.Release()
		img.stagingTexture = nil
	}
	if img.primaryTexture != nil {
		img.primaryTexture.Release()
		img.primaryTexture = nil
	}
	img.mapped = nil
}
