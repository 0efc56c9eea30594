package engine

import (
	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/google/uuid"
)

// Algorithm owns a descriptor-set layout (reflected from the shader),
// descriptor set, shader module, pipeline, push-constant state,
// specialization-constant state, and dispatch dimensions (spec.md
// §4.4). Grounded on the pipeline/bind-group assembly in the
// teacher's internal/backend/webgpu/compute.go, generalized from a
// single fixed kernel to the spec's arbitrary binding list + spec
// constants + push constants.
type Algorithm struct {
	id uuid.UUID

	device   *GPUDevice
	bindings []Memory

	layout   *wgpu.BindGroupLayout
	set      *wgpu.BindGroup
	shader   *wgpu.ShaderModule
	pipeline *wgpu.ComputePipeline

	workgroup [3]uint32

	specConstants   []byte
	specCount       int
	specElementSize int

	pushConstants   []byte
	pushCount       int
	pushElementSize int

	pushBuffer *wgpu.Buffer
}

// AlgorithmSpec describes the inputs to (re)build an Algorithm,
// matching the constructor inputs in spec.md §4.4.
type AlgorithmSpec struct {
	Bindings       []Memory
	Spirv          []byte
	Workgroup      [3]int
	SpecConstants  []byte
	SpecElemSize   int
	PushConstants  []byte
	PushElemSize   int
}

func newAlgorithm(device *GPUDevice, spec AlgorithmSpec) (*Algorithm, error) {
	a := &Algorithm{id: uuid.New(), device: device}
	if err := a.build(spec); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Algorithm) ID() uuid.UUID { return a.id }

// build constructs every owned GPU handle atomically: on any failure
// every handle created so far in this call is released before
// returning, and the Algorithm is left un-initialized (spec.md §4.4:
// "a failed rebuild leaves the algorithm un-initialized").
func (a *Algorithm) build(spec AlgorithmSpec) (err error) {
	const op = "Algorithm.build"
	defer func() {
		if err != nil {
			a.Destroy()
		}
	}()

	shader := a.device.Device.CreateShaderModuleSPIRV(&wgpu.ShaderModuleSPIRVDescriptor{
		Label: "kompute.algorithm.shader",
		Code:  spec.Spirv,
	})
	if shader == nil {
		return newErr(op, KindNoCompatibleMemoryType, nil)
	}

	constants := specializationEntries(spec.SpecConstants, spec.SpecElemSize)

	// Layout: nil requests a bind-group layout reflected from the
	// shader module's own resource declarations, the auto-layout
	// pattern the teacher uses throughout
	// internal/backend/webgpu/compute.go
	// (CreateComputePipelineSimple(nil, shader, "main") followed by
	// pipeline.GetBindGroupLayout(0)) in place of hand-assembled
	// BindGroupLayoutEntry/PipelineLayout descriptors (see DESIGN.md O3).
	pipeline := a.device.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "kompute.algorithm.pipeline",
		Layout: nil,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shader,
			EntryPoint: "main",
			Constants:  constants,
		},
	})
	if pipeline == nil {
		shader.Release()
		return newErr(op, KindNoCompatibleMemoryType, nil)
	}

	layout := pipeline.GetBindGroupLayout(0)
	if layout == nil {
		pipeline.Release()
		shader.Release()
		return newErr(op, KindNoCompatibleMemoryType, nil)
	}

	bindEntries := make([]wgpu.BindGroupEntry, len(spec.Bindings), len(spec.Bindings)+1)
	for i, m := range spec.Bindings {
		bindEntries[i] = m.ConstructDescriptorWrite(uint32(i))
	}

	var pushBuffer *wgpu.Buffer
	if len(spec.PushConstants) > 0 {
		pushBuffer = a.device.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "kompute.algorithm.push-constants",
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			Size:  uint64(len(spec.PushConstants)),
		})
		bindEntries = append(bindEntries, wgpu.BindGroupEntry{
			Binding: uint32(len(spec.Bindings)),
			Buffer:  pushBuffer,
			Offset:  0,
			Size:    uint64(len(spec.PushConstants)),
		})
	}

	set := a.device.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "kompute.algorithm.set",
		Layout:  layout,
		Entries: bindEntries,
	})
	if set == nil {
		if pushBuffer != nil {
			pushBuffer.Release()
		}
		layout.Release()
		pipeline.Release()
		shader.Release()
		return newErr(op, KindNoCompatibleMemoryType, nil)
	}

	wg, err := resolveWorkgroup(spec.Workgroup, spec.Bindings)
	if err != nil {
		set.Release()
		if pushBuffer != nil {
			pushBuffer.Release()
		}
		layout.Release()
		pipeline.Release()
		shader.Release()
		return err
	}

	// From here on we can no longer fail: swap in the new handles and
	// release whatever this Algorithm owned before (rebuild path).
	a.destroyOwned()

	a.bindings = spec.Bindings
	a.layout = layout
	a.set = set
	a.shader = shader
	a.pipeline = pipeline
	a.pushBuffer = pushBuffer
	a.workgroup = wg
	a.specConstants = spec.SpecConstants
	a.specElementSize = spec.SpecElemSize
	if spec.SpecElemSize > 0 {
		a.specCount = len(spec.SpecConstants) / spec.SpecElemSize
	}
	a.pushConstants = spec.PushConstants
	a.pushElementSize = spec.PushElemSize
	if spec.PushElemSize > 0 {
		a.pushCount = len(spec.PushConstants) / spec.PushElemSize
	}

	return nil
}

// resolveWorkgroup implements spec.md §4.4's workgroup-default rule:
// "if x < 1, and the first bound Memory is a buffer, default the
// workgroup to (first_memory.size(), 1, 1); otherwise require the
// caller to supply a valid workgroup."
func resolveWorkgroup(wg [3]int, bindings []Memory) ([3]uint32, error) {
	if wg[0] >= 1 {
		return [3]uint32{uint32(wg[0]), uint32(wg[1]), uint32(wg[2])}, nil
	}
	if len(bindings) > 0 && bindings[0].Kind() == TensorKind {
		return [3]uint32{uint32(bindings[0].Size()), 1, 1}, nil
	}
	return [3]uint32{}, newErr("Algorithm.build", KindZeroSizedResource, nil)
}

// specializationEntries assembles a wgpu.ConstantEntry list element
// by element: "each specialization constant gets ID i and byte offset
// i*element_size" (spec.md §4.4), read back as a float64 the way
// go-webgpu's ConstantEntry.Value expects (WebGPU override constants
// are always numeric, unlike raw Vulkan specialization bytes).
func specializationEntries(data []byte, elemSize int) []wgpu.ConstantEntry {
	if elemSize <= 0 || len(data) == 0 {
		return nil
	}
	count := len(data) / elemSize
	out := make([]wgpu.ConstantEntry, count)
	for i := 0; i < count; i++ {
		out[i] = wgpu.ConstantEntry{
			Key:   uint32(i),
			Value: decodeSpecConstant(data[i*elemSize : (i+1)*elemSize]),
		}
	}
	return out
}

func decodeSpecConstant(b []byte) float64 {
	switch len(b) {
	case 4:
		var v uint32
		for i, c := range b {
			v |= uint32(c) << (8 * i)
		}
		return float64(v)
	case 8:
		var v uint64
		for i, c := range b {
			v |= uint64(c) << (8 * i)
		}
		return float64(v)
	default:
		return 0
	}
}

func (a *Algorithm) IsInitialized() bool {
	return a.layout != nil && a.set != nil && a.shader != nil && a.pipeline != nil
}

func (a *Algorithm) Workgroup() [3]uint32 { return a.workgroup }

func (a *Algorithm) SetWorkgroup(wg [3]int) {
	a.workgroup = [3]uint32{uint32(wg[0]), uint32(wg[1]), uint32(wg[2])}
}

func (a *Algorithm) GetPushConstants() []byte { return a.pushConstants }
func (a *Algorithm) GetSpecConstants() []byte { return a.specConstants }
func (a *Algorithm) GetBindings() []Memory    { return a.bindings }

// SetPushConstants updates the staged push payload; shape is checked
// on the next RecordBindPush, not here (spec.md §4.4: "shape-checked
// on next bind").
func (a *Algorithm) SetPushConstants(data []byte, count, elementSize int) {
	a.pushConstants = data
	a.pushCount = count
	a.pushElementSize = elementSize
}

// RecordBindCore binds the compute pipeline and descriptor set at set
// 0 (spec.md §4.4).
func (a *Algorithm) RecordBindCore(pass *wgpu.ComputePassEncoder) {
	pass.SetPipeline(a.pipeline)
	pass.SetBindGroup(0, a.set, nil)
}

// RecordBindPush validates and uploads the push-constant payload
// (override if non-nil, else the algorithm's own staged state), then
// writes it into the dedicated uniform buffer (SPEC_FULL.md §0's
// substitution for Vulkan push constants).
func (a *Algorithm) RecordBindPush(override []byte, overrideCount, overrideElemSize int) error {
	const op = "Algorithm.RecordBindPush"

	data, count, elemSize := a.pushConstants, a.pushCount, a.pushElementSize
	if override != nil {
		data, count, elemSize = override, overrideCount, overrideElemSize
	}
	if len(data) == 0 {
		return nil
	}
	if count != a.pushCount || elemSize != a.pushElementSize {
		return newErr(op, KindPushConstantShapeMismatch, nil)
	}
	if a.pushBuffer == nil {
		return newErr(op, KindPushConstantShapeMismatch, nil)
	}
	a.device.Queue(0).WriteBuffer(a.pushBuffer, 0, data)
	return nil
}

// RecordDispatch dispatches the stored workgroup dimensions.
func (a *Algorithm) RecordDispatch(pass *wgpu.ComputePassEncoder) {
	pass.DispatchWorkgroups(a.workgroup[0], a.workgroup[1], a.workgroup[2])
}

// Rebuild destroys and re-creates all owned handles atomically.
func (a *Algorithm) Rebuild(spec AlgorithmSpec) error {
	return a.build(spec)
}

func (a *Algorithm) destroyOwned() {
	if a.pipeline != nil {
		a.pipeline.Release()
	}
	if a.shader != nil {
		a.shader.Release()
	}
	if a.set != nil {
		a.set.Release()
	}
	if a.layout != nil {
		a.layout.Release()
	}
	if a.pushBuffer != nil {
		a.pushBuffer.Release()
	}
}

func (a *Algorithm) Destroy() {
	a.destroyOwned()
	a.pipeline, a.shader, a.set, a.layout, a.pushBuffer = nil, nil, nil, nil, nil
}
