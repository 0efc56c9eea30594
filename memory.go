package kompute

import "github.com/imaginationtech/kompute/internal/engine"

// MemoryClass selects placement and host-visibility of a GPU memory
// object (spec.md §3).
type MemoryClass = engine.MemoryClass

const (
	Device        = engine.Device
	Host          = engine.Host
	DeviceAndHost = engine.DeviceAndHost
	Storage       = engine.Storage
)

// MemoryKind discriminates Tensor from Image without reflection.
type MemoryKind = engine.MemoryKind

const (
	TensorKind = engine.TensorKind
	ImageKind  = engine.ImageKind
)

// ElementType tags the scalar type stored in a Tensor or Image
// element.
type ElementType = engine.ElementType

const (
	Bool   = engine.Bool
	I8     = engine.I8
	U8     = engine.U8
	I16    = engine.I16
	U16    = engine.U16
	I32    = engine.I32
	U32    = engine.U32
	F16    = engine.F16
	F32    = engine.F32
	F64    = engine.F64
	Custom = engine.Custom
)

// Tiling selects the image memory layout used by the GPU.
type Tiling = engine.Tiling

const (
	Optimal = engine.Optimal
	Linear  = engine.Linear
)

// Layout tracks an Image's device-side layout state.
type Layout = engine.Layout

const (
	LayoutUndefined = engine.LayoutUndefined
	LayoutGeneral   = engine.LayoutGeneral
)

// Channels selects the channel layout of an Image.
type Channels = engine.Channels

const (
	R    = engine.R
	RG   = engine.RG
	RGBA = engine.RGBA
)

// Memory is the common contract for any GPU-addressable data object,
// buffer-backed (Tensor) or image-backed (Image) — spec.md §4.1.
type Memory = engine.Memory
