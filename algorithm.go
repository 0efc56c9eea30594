package kompute

import "github.com/imaginationtech/kompute/internal/engine"

// Algorithm owns a descriptor-set layout, descriptor set, shader
// module, pipeline layout, pipeline, push/specialization-constant
// state, and dispatch dimensions (spec.md §4.4).
type Algorithm = engine.Algorithm

// AlgorithmSpec describes the inputs to (re)build an Algorithm.
type AlgorithmSpec = engine.AlgorithmSpec

// BarrierTarget selects which of a Memory object's two GPU resources
// a MemoryBarrier applies to.
type BarrierTarget = engine.BarrierTarget

const (
	BarrierPrimary = engine.BarrierPrimary
	BarrierStaging = engine.BarrierStaging
)
