package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMultComputesElementwiseProduct is scenario 1 from spec.md §8: a
// full sync-dispatch-sync round trip through NewMult's element-wise
// multiply shader.
func TestMultComputesElementwiseProduct(t *testing.T) {
	mgr := newTestManager(t)

	a, err := mgr.Tensor(3, F32, Device, floatBytes(1, 2, 3))
	require.NoError(t, err)
	b, err := mgr.Tensor(3, F32, Device, floatBytes(4, 5, 6))
	require.NoError(t, err)
	out, err := mgr.Tensor(3, F32, Device, floatBytes(0, 0, 0))
	require.NoError(t, err)

	mult, err := NewMult(mgr.Device(), a, b, out)
	require.NoError(t, err)

	seq, err := mgr.Sequence(0, 0)
	require.NoError(t, err)
	defer seq.Destroy()

	require.NoError(t, seq.Begin())
	require.NoError(t, seq.Record(NewSyncToDevice([]Memory{a, b, out})))
	require.NoError(t, seq.Record(mult))
	require.NoError(t, seq.Record(NewSyncToHost([]Memory{out})))
	require.NoError(t, seq.End())
	require.NoError(t, seq.Eval())

	got, err := out.RawHostPointer()
	require.NoError(t, err)
	assert.Equal(t, floatBytes(4, 10, 18), got)
}

// TestThroughStorageRoundTrip is a variant of round-trip R3 / scenario
// 3: data staged through a Storage-class tensor via two same-kind Copy
// operations (copy-in, copy-out) survives unchanged, while the Storage
// tensor itself refuses host access (property P2).
func TestThroughStorageRoundTrip(t *testing.T) {
	mgr := newTestManager(t)

	src, err := mgr.Tensor(3, F32, Device, floatBytes(10, 20, 30))
	require.NoError(t, err)

	scratch, err := mgr.Tensor(3, F32, Storage, nil)
	require.NoError(t, err)

	dst, err := mgr.Tensor(3, F32, Device, nil)
	require.NoError(t, err)

	toScratch, err := NewCopy([]Memory{src, scratch})
	require.NoError(t, err)
	fromScratch, err := NewCopy([]Memory{scratch, dst})
	require.NoError(t, err)

	seq, err := mgr.Sequence(0, 0)
	require.NoError(t, err)
	defer seq.Destroy()

	require.NoError(t, seq.Begin())
	require.NoError(t, seq.Record(NewSyncToDevice([]Memory{src})))
	require.NoError(t, seq.Record(toScratch))
	require.NoError(t, seq.Record(fromScratch))
	require.NoError(t, seq.Record(NewSyncToHost([]Memory{dst})))
	require.NoError(t, seq.End())
	require.NoError(t, seq.Eval())

	_, err = scratch.RawHostPointer()
	require.Error(t, err)
	assert.Equal(t, KindHostAccessOnStorage, errKind(err))

	got, err := dst.RawHostPointer()
	require.NoError(t, err)
	assert.Equal(t, floatBytes(10, 20, 30), got)
}
