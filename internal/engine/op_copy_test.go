package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCrossCopyRejectsSizeMismatch covers spec.md §4.5.4's
// size-mismatch edge case for image<->buffer copies.
func TestCrossCopyRejectsSizeMismatch(t *testing.T) {
	mgr := newTestManager(t)

	img, err := mgr.Image(2, 2, R, F32, Device, Optimal, nil)
	require.NoError(t, err)

	buf, err := mgr.Tensor(8, F32, Device, nil)
	require.NoError(t, err)

	_, err = NewImageCopyToBuffer(img, []*Tensor{buf})
	require.Error(t, err)
	assert.Equal(t, KindSizeMismatch, errKind(err))
}

// TestCrossCopyRejectsTooFewObjects covers the too-few-objects edge
// case when no destination buffers/images are supplied.
func TestCrossCopyRejectsTooFewObjects(t *testing.T) {
	mgr := newTestManager(t)

	img, err := mgr.Image(2, 2, R, F32, Device, Optimal, nil)
	require.NoError(t, err)

	_, err = NewImageCopyToBuffer(img, nil)
	require.Error(t, err)
	assert.Equal(t, KindTooFewObjects, errKind(err))
}

// TestSameKindCopyRejectsKindMismatch covers spec.md §4.5.3's
// kind-mismatch edge case: a Tensor and an Image cannot be mixed in a
// same-kind Copy.
func TestSameKindCopyRejectsKindMismatch(t *testing.T) {
	mgr := newTestManager(t)

	tens, err := mgr.Tensor(4, F32, Device, nil)
	require.NoError(t, err)

	img, err := mgr.Image(2, 2, R, F32, Device, Optimal, nil)
	require.NoError(t, err)

	_, err = NewCopy([]Memory{tens, img})
	require.Error(t, err)
	assert.Equal(t, KindKindMismatch, errKind(err))
}

// TestSameKindCopyRejectsSizeMismatch covers spec.md §4.5.3's
// size-mismatch edge case between two Tensors of differing element
// counts.
func TestSameKindCopyRejectsSizeMismatch(t *testing.T) {
	mgr := newTestManager(t)

	a, err := mgr.Tensor(4, F32, Device, nil)
	require.NoError(t, err)
	b, err := mgr.Tensor(5, F32, Device, nil)
	require.NoError(t, err)

	_, err = NewCopy([]Memory{a, b})
	require.Error(t, err)
	assert.Equal(t, KindSizeMismatch, errKind(err))
}

// TestBufferCopyToImageRoundTrip is a cross-kind variant of round-trip
// R2: buffer -> image -> buffer host bytes survive intact.
func TestBufferCopyToImageRoundTrip(t *testing.T) {
	mgr := newTestManager(t)

	src := floatBytes(1, 2, 3, 4)
	buf, err := mgr.Tensor(4, F32, Device, src)
	require.NoError(t, err)

	img, err := mgr.Image(2, 2, R, F32, Device, Optimal, nil)
	require.NoError(t, err)

	toImg, err := NewBufferCopyToImage(buf, []*Image{img})
	require.NoError(t, err)

	out, err := mgr.Tensor(4, F32, Device, nil)
	require.NoError(t, err)

	toBuf, err := NewImageCopyToBuffer(img, []*Tensor{out})
	require.NoError(t, err)

	seq, err := mgr.Sequence(0, 0)
	require.NoError(t, err)
	defer seq.Destroy()

	require.NoError(t, seq.Begin())
	require.NoError(t, seq.Record(NewSyncToDevice([]Memory{buf})))
	require.NoError(t, seq.Record(toImg))
	require.NoError(t, seq.Record(toBuf))
	require.NoError(t, seq.Record(NewSyncToHost([]Memory{out})))
	require.NoError(t, seq.End())
	require.NoError(t, seq.Eval())

	got, err := out.RawHostPointer()
	require.NoError(t, err)
	assert.Equal(t, src, got)
}
