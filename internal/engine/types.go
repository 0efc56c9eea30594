// Package engine implements the resource, operation, and sequencing
// core of the kompute GPU compute runtime: typed buffer/image memory,
// compute algorithms, recordable operations, and the sequence/manager
// lifecycle that drives them against a WebGPU device.
package engine

import "fmt"

// MemoryClass selects placement and host-visibility of a GPU memory
// object. See kompute.MemoryClass for the public alias.
type MemoryClass int

const (
	// Device memory is device-local and requires a staging mirror for
	// any host transfer.
	Device MemoryClass = iota
	// Host memory is host-visible and host-coherent, and directly
	// mappable; it never allocates a staging mirror.
	Host
	// DeviceAndHost memory is device-local AND host-visible where the
	// adapter supports it; it never allocates a staging mirror.
	DeviceAndHost
	// Storage memory is device-local, shader-only: it is never a
	// source or destination of a host transfer and never exposes a
	// host pointer.
	Storage
)

func (c MemoryClass) String() string {
	switch c {
	case Device:
		return "Device"
	case Host:
		return "Host"
	case DeviceAndHost:
		return "DeviceAndHost"
	case Storage:
		return "Storage"
	default:
		return fmt.Sprintf("MemoryClass(%d)", int(c))
	}
}

// HasStaging reports whether this class allocates a staging mirror
// (invariant M2: only Device memory does).
func (c MemoryClass) HasStaging() bool {
	return c == Device
}

// HostVisible reports whether the class exposes any host-mappable
// resource at all (invariant M1: Storage never does).
func (c MemoryClass) HostVisible() bool {
	return c != Storage
}

// MemoryKind discriminates the two concrete Memory variants, used by
// operations to type-switch without reflection (see SPEC_FULL.md
// §3.1: a closed sum over {Tensor, Image}).
type MemoryKind int

const (
	// TensorKind identifies buffer-backed Memory.
	TensorKind MemoryKind = iota
	// ImageKind identifies image-backed Memory.
	ImageKind
)

func (k MemoryKind) String() string {
	switch k {
	case TensorKind:
		return "Tensor"
	case ImageKind:
		return "Image"
	default:
		return fmt.Sprintf("MemoryKind(%d)", int(k))
	}
}

// ElementType tags the scalar type stored in a Tensor or Image
// element. Not every tag is valid for both kinds: Tensor accepts
// every tag (Custom for element widths not listed), while Image
// restricts to the numeric formats with a concrete hardware format
// (see format.go), so Bool, F64 and Custom images are rejected.
type ElementType int

const (
	Bool ElementType = iota
	I8
	U8
	I16
	U16
	I32
	U32
	F16
	F32
	F64
	Custom
)

func (t ElementType) String() string {
	names := [...]string{"Bool", "I8", "U8", "I16", "U16", "I32", "U32", "F16", "F32", "F64", "Custom"}
	if int(t) < 0 || int(t) >= len(names) {
		return fmt.Sprintf("ElementType(%d)", int(t))
	}
	return names[t]
}

// elementSizes gives the byte size of each built-in ElementType.
// Custom has no fixed size; newTensor derives it from the length of
// the supplied data divided by the element count (1 byte when no data
// is supplied).
var elementSizes = map[ElementType]int{
	Bool: 1,
	I8:   1,
	U8:   1,
	I16:  2,
	U16:  2,
	I32:  4,
	U32:  4,
	F16:  2,
	F32:  4,
	F64:  8,
}

// Bytes returns the byte size of one element of this type, or 0 for
// Custom (see elementSizes for how a Custom Tensor is sized).
func (t ElementType) Bytes() int {
	return elementSizes[t]
}

// Tiling selects the image memory layout used by the GPU.
type Tiling int

const (
	// Optimal tiling lets the device pick an implementation-defined
	// layout; it is the default and the only layout valid for the
	// host-visible memory classes.
	Optimal Tiling = iota
	// Linear tiling lays out texels row-major, host-readable; only
	// valid for Device and Storage memory (invariant I1).
	Linear
)

func (t Tiling) String() string {
	if t == Linear {
		return "Linear"
	}
	return "Optimal"
}

// Layout tracks an Image's device-side layout state (invariant I2: an
// image starts Undefined and the only transition the engine performs
// is to General).
type Layout int

const (
	LayoutUndefined Layout = iota
	LayoutGeneral
)

func (l Layout) String() string {
	if l == LayoutGeneral {
		return "General"
	}
	return "Undefined"
}
