package engine

import (
	_ "embed"

	"github.com/go-webgpu/webgpu/wgpu"
)

// AlgorithmDispatch implements spec.md §4.5.6: record emits bind
// core, bind push (with an optional override of the same shape as at
// build time), then dispatch. pre_eval/post_eval are no-ops.
type AlgorithmDispatch struct {
	algo             *Algorithm
	pushOverride     []byte
	pushOverrideN    int
	pushOverrideSize int
}

func NewAlgorithmDispatch(algo *Algorithm) *AlgorithmDispatch {
	return &AlgorithmDispatch{algo: algo}
}

// NewAlgorithmDispatchWithPush attaches a push-constant override used
// only for this dispatch, leaving the Algorithm's own staged push
// state untouched.
func NewAlgorithmDispatchWithPush(algo *Algorithm, data []byte, count, elementSize int) *AlgorithmDispatch {
	return &AlgorithmDispatch{algo: algo, pushOverride: data, pushOverrideN: count, pushOverrideSize: elementSize}
}

func (o *AlgorithmDispatch) PreEval(cb *wgpu.CommandEncoder) error { return nil }

func (o *AlgorithmDispatch) Record(cb *wgpu.CommandEncoder) error {
	pass := cb.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "kompute.dispatch"})
	o.algo.RecordBindCore(pass)
	if err := o.algo.RecordBindPush(o.pushOverride, o.pushOverrideN, o.pushOverrideSize); err != nil {
		pass.End()
		return err
	}
	o.algo.RecordDispatch(pass)
	pass.End()
	return nil
}

func (o *AlgorithmDispatch) PostEval(cb *wgpu.CommandEncoder) error { return nil }

// multiplySPIRV is the shipped element-wise multiply compute shader
// backing the Mult sample operation (spec.md §4.5.7): out[i] =
// a[i]*b[i] over three f32 storage buffers bound at 0, 1, 2. The spec
// treats shader compilation as out of scope and assumes pre-compiled
// bytecode is supplied; this module ships the bytecode already
// compiled, the same way the two demo shaders are "out of scope,
// mentioned only where they cross the interface" per spec.md §1.
//
//go:embed shaders/multiply.spv
var multiplySPIRV []byte

// NewMult builds the degenerate AlgorithmDispatch described in
// spec.md §4.5.7: a smoke test of the pipeline, not a normative
// operation in its own right.
func NewMult(device *GPUDevice, a, b, out *Tensor) (*AlgorithmDispatch, error) {
	algo, err := newAlgorithm(device, AlgorithmSpec{
		Bindings:  []Memory{a, b, out},
		Spirv:     multiplySPIRV,
		Workgroup: [3]int{a.Size(), 1, 1},
	})
	if err != nil {
		return nil, err
	}
	return NewAlgorithmDispatch(algo), nil
}
