package engine

import "github.com/go-webgpu/webgpu/wgpu"

// Channels selects the channel layout of an Image (spec.md §4.3:
// "format selection is (element type x channel count) -> concrete API
// format using a fixed table").
type Channels int

const (
	R Channels = iota + 1
	RG
	RGBA
)

// formatKey is the lookup key for the element-type/channel-count
// table below.
type formatKey struct {
	elem ElementType
	ch   Channels
}

// formatTable maps (ElementType, Channels) onto a concrete
// wgpu.TextureFormat. Grounded on cogentcore/core/gpu's
// TypeToTextureFormat table in gpu/types.go, which performs the same
// lookup for its Values/Vars image bindings; narrowed here to the
// image element types spec.md §4.3 names and to 1, 2 and 4 channels.
// WebGPU has no 3-channel texture formats, so there is no RGB entry
// and 3-channel images are not supported.
// Combinations absent from this table are unsupported and surface as
// KindInvalidImageFormat at Image construction (spec.md §4.3 edge
// case: "unsupported combinations yield undefined format... and an
// initialization error").
var formatTable = map[formatKey]wgpu.TextureFormat{
	{U8, R}:    wgpu.TextureFormatR8Unorm,
	{U8, RG}:   wgpu.TextureFormatRG8Unorm,
	{U8, RGBA}: wgpu.TextureFormatRGBA8Unorm,

	{I8, R}:    wgpu.TextureFormatR8Sint,
	{I8, RG}:   wgpu.TextureFormatRG8Sint,
	{I8, RGBA}: wgpu.TextureFormatRGBA8Sint,

	{U16, R}:    wgpu.TextureFormatR16Uint,
	{U16, RG}:   wgpu.TextureFormatRG16Uint,
	{U16, RGBA}: wgpu.TextureFormatRGBA16Uint,

	{I16, R}:    wgpu.TextureFormatR16Sint,
	{I16, RG}:   wgpu.TextureFormatRG16Sint,
	{I16, RGBA}: wgpu.TextureFormatRGBA16Sint,

	{F16, R}:    wgpu.TextureFormatR16Float,
	{F16, RG}:   wgpu.TextureFormatRG16Float,
	{F16, RGBA}: wgpu.TextureFormatRGBA16Float,

	{U32, R}:    wgpu.TextureFormatR32Uint,
	{U32, RG}:   wgpu.TextureFormatRG32Uint,
	{U32, RGBA}: wgpu.TextureFormatRGBA32Uint,

	{I32, R}:    wgpu.TextureFormatR32Sint,
	{I32, RG}:   wgpu.TextureFormatRG32Sint,
	{I32, RGBA}: wgpu.TextureFormatRGBA32Sint,

	{F32, R}:    wgpu.TextureFormatR32Float,
	{F32, RG}:   wgpu.TextureFormatRG32Float,
	{F32, RGBA}: wgpu.TextureFormatRGBA32Float,
}

// textureFormat resolves (elem, ch) to a concrete wgpu.TextureFormat,
// or KindInvalidImageFormat if the combination has no entry.
func textureFormat(elem ElementType, ch Channels) (wgpu.TextureFormat, error) {
	f, ok := formatTable[formatKey{elem, ch}]
	if !ok {
		return 0, newErr("textureFormat", KindInvalidImageFormat, nil)
	}
	return f, nil
}

// channelCount returns the number of scalar components in ch.
func channelCount(ch Channels) int {
	switch ch {
	case R:
		return 1
	case RG:
		return 2
	case RGBA:
		return 4
	default:
		return 0
	}
}

func (c Channels) String() string {
	switch c {
	case R:
		return "R"
	case RG:
		return "RG"
	case RGBA:
		return "RGBA"
	default:
		return "Channels(0)"
	}
}
