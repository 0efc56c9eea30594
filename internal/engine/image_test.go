package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestImageInvalidTilingForHost is scenario 5 / invariant I1: linear
// tiling with Host memory class is an initialization error.
func TestImageInvalidTilingForHost(t *testing.T) {
	mgr := newTestManager(t)

	_, err := mgr.Image(3, 3, R, F32, Host, Linear, nil)
	require.Error(t, err)
	assert.Equal(t, KindInvalidTilingForMemoryClass, errKind(err))
}

// TestImageLinearTilingAllowedForDeviceAndStorage covers the
// permitted side of invariant I1.
func TestImageLinearTilingAllowedForDeviceAndStorage(t *testing.T) {
	mgr := newTestManager(t)

	_, err := mgr.Image(3, 3, R, F32, Device, Linear, nil)
	require.NoError(t, err)

	_, err = mgr.Image(3, 3, R, F32, Storage, Linear, nil)
	require.NoError(t, err)
}

// TestImageLayoutsStartUndefinedAndTransitionToGeneral is invariant
// I2: both layouts start Undefined; a barrier transitions each to
// General, the only non-undefined layout used.
func TestImageLayoutsStartUndefinedAndTransitionToGeneral(t *testing.T) {
	mgr := newTestManager(t)

	img, err := mgr.Image(2, 2, R, F32, Device, Optimal, nil)
	require.NoError(t, err)

	assert.Equal(t, LayoutUndefined, img.PrimaryLayout())
	assert.Equal(t, LayoutUndefined, img.StagingLayout())

	img.RecordPrimaryBarrier(nil)
	img.RecordStagingBarrier(nil)

	assert.Equal(t, LayoutGeneral, img.PrimaryLayout())
	assert.Equal(t, LayoutGeneral, img.StagingLayout())
}

// TestImageUnsupportedFormatRejected covers spec.md §4.3's
// unsupported-combination edge case.
func TestImageUnsupportedFormatRejected(t *testing.T) {
	mgr := newTestManager(t)

	_, err := mgr.Image(2, 2, RGBA, F64, Device, Optimal, nil)
	require.Error(t, err)
	assert.Equal(t, KindInvalidImageFormat, errKind(err))
}

// TestRoundTripImageCopy is round-trip R2 / scenario 2: a 3x3x1 f32
// image copy leaves dst equal to src after SyncToDevice/ImageCopy/
// SyncToHost.
func TestRoundTripImageCopy(t *testing.T) {
	mgr := newTestManager(t)

	srcData := floatBytes(0, 1, 2, 3, 4, 5, 6, 7, 8)
	src, err := mgr.Image(3, 3, R, F32, Device, Optimal, srcData)
	require.NoError(t, err)

	dst, err := mgr.Image(3, 3, R, F32, Device, Optimal, floatBytes(0, 0, 0, 0, 0, 0, 0, 0, 0))
	require.NoError(t, err)

	copyOp, err := NewCopy([]Memory{src, dst})
	require.NoError(t, err)

	seq, err := mgr.Sequence(0, 0)
	require.NoError(t, err)
	defer seq.Destroy()

	require.NoError(t, seq.Begin())
	require.NoError(t, seq.Record(NewSyncToDevice([]Memory{src, dst})))
	require.NoError(t, seq.Record(copyOp))
	require.NoError(t, seq.Record(NewSyncToHost([]Memory{src, dst})))
	require.NoError(t, seq.End())
	require.NoError(t, seq.Eval())

	got, err := dst.RawHostPointer()
	require.NoError(t, err)
	assert.Equal(t, srcData, got)
}

// TestSameKindCopyRequiresTwoObjects is scenario 6: ImageCopy with
// only one image fails too-few-objects.
func TestSameKindCopyRequiresTwoObjects(t *testing.T) {
	mgr := newTestManager(t)

	img, err := mgr.Image(2, 2, R, F32, Device, Optimal, nil)
	require.NoError(t, err)

	_, err = NewCopy([]Memory{img})
	require.Error(t, err)
	assert.Equal(t, KindTooFewObjects, errKind(err))
}
