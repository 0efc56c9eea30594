package engine

import "github.com/go-webgpu/webgpu/wgpu"

// Operation is a unit of work recordable into a command buffer with
// host-side hooks either side of recording (spec.md §4.5). A Sequence
// calls PreEval immediately before Record during Sequence.Record, and
// calls PostEval for every recorded op, in insertion order, once the
// submission's fence has signaled (spec.md §4.6).
//
// The package's concrete variants are SyncToDevice, SyncToHost, Copy,
// CrossCopy, MemoryBarrier and AlgorithmDispatch, each a distinct type
// implementing this interface; any other type with these methods can
// be recorded too. Sequence stores every op as an Operation, which
// keeps its operation list uniform and makes Rerecord a replay of
// that list.
type Operation interface {
	PreEval(cb *wgpu.CommandEncoder) error
	Record(cb *wgpu.CommandEncoder) error
	PostEval(cb *wgpu.CommandEncoder) error
}
