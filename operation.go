package kompute

import "github.com/imaginationtech/kompute/internal/engine"

// Operation is a unit of work recordable into a command buffer with
// host-side hooks either side of recording (spec.md §4.5).
type Operation = engine.Operation

// NewSyncToDevice implements spec.md §4.5.1.
func NewSyncToDevice(targets []Memory) Operation { return engine.NewSyncToDevice(targets) }

// NewSyncToHost implements spec.md §4.5.2.
func NewSyncToHost(targets []Memory) Operation { return engine.NewSyncToHost(targets) }

// NewCopy implements the same-kind copy of spec.md §4.5.3
// (TensorCopy / ImageCopy).
func NewCopy(objects []Memory) (Operation, error) { return engine.NewCopy(objects) }

// NewImageCopyToBuffer implements the image-to-buffer variant of the
// cross-kind copy, spec.md §4.5.4.
func NewImageCopyToBuffer(image *Image, buffers []*Tensor) (Operation, error) {
	return engine.NewImageCopyToBuffer(image, buffers)
}

// NewBufferCopyToImage implements the buffer-to-image variant of the
// cross-kind copy, spec.md §4.5.4.
func NewBufferCopyToImage(buffer *Tensor, images []*Image) (Operation, error) {
	return engine.NewBufferCopyToImage(buffer, images)
}

// NewMemoryBarrier implements spec.md §4.5.5.
func NewMemoryBarrier(objects []Memory, srcAccess, dstAccess, srcStage, dstStage string, target BarrierTarget) Operation {
	return engine.NewMemoryBarrier(objects, srcAccess, dstAccess, srcStage, dstStage, target)
}

// NewAlgorithmDispatch implements spec.md §4.5.6.
func NewAlgorithmDispatch(algo *Algorithm) Operation { return engine.NewAlgorithmDispatch(algo) }

// NewAlgorithmDispatchWithPush attaches a one-off push-constant
// override to a dispatch.
func NewAlgorithmDispatchWithPush(algo *Algorithm, data []byte, count, elementSize int) Operation {
	return engine.NewAlgorithmDispatchWithPush(algo, data, count, elementSize)
}

// NewMult builds the degenerate element-wise-multiply
// AlgorithmDispatch of spec.md §4.5.7, a smoke test of the pipeline,
// not a normative operation in its own right.
func NewMult(mgr *Manager, a, b, out *Tensor) (Operation, error) {
	return engine.NewMult(mgr.Device(), a, b, out)
}
