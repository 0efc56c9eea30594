package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTensorDeviceClassEqualStagingSize is property P1: for every
// Device memory object, primary and staging byte size both equal
// size*element_byte_size.
func TestTensorDeviceClassEqualStagingSize(t *testing.T) {
	mgr := newTestManager(t)

	tens, err := mgr.Tensor(4, F32, Device, nil)
	require.NoError(t, err)

	want := 4 * F32.Bytes()
	assert.Equal(t, want, tens.ByteSize())
	assert.NotNil(t, tens.stagingBuffer)
	assert.NotNil(t, tens.primaryBuffer)
}

// TestTensorStorageHostAccessFails is property P2: any call to
// RawHostPointer or SetHostData on a Storage memory object fails
// host-access-on-storage.
func TestTensorStorageHostAccessFails(t *testing.T) {
	mgr := newTestManager(t)

	tens, err := mgr.Tensor(4, F32, Storage, nil)
	require.NoError(t, err)

	_, err = tens.RawHostPointer()
	require.Error(t, err)
	assert.Equal(t, KindHostAccessOnStorage, errKind(err))

	err = tens.SetHostData(floatBytes(1, 2, 3, 4))
	require.Error(t, err)
	assert.Equal(t, KindHostAccessOnStorage, errKind(err))
}

// TestTensorZeroSizedRejected covers the zero-sized-resource edge
// case from spec.md §3/§7.
func TestTensorZeroSizedRejected(t *testing.T) {
	mgr := newTestManager(t)

	_, err := mgr.Tensor(0, F32, Device, nil)
	require.Error(t, err)
	assert.Equal(t, KindZeroSizedResource, errKind(err))
}

// TestTensorRebuildPreservesShape approximates property P6: Tensor has
// no rebuild method, so this creates a second tensor with the same N
// elements of type T and checks both report the same size and
// element_byte_size.
func TestTensorRebuildPreservesShape(t *testing.T) {
	mgr := newTestManager(t)

	tens, err := mgr.Tensor(5, F32, Device, nil)
	require.NoError(t, err)

	rebuilt, err := mgr.Tensor(5, F32, Device, nil)
	require.NoError(t, err)

	assert.Equal(t, tens.Size(), rebuilt.Size())
	assert.Equal(t, tens.ElementByteSize(), rebuilt.ElementByteSize())
}

// TestRoundTripHostDeviceHost is round-trip R1: host -> Device buffer
// -> staging -> host.
func TestRoundTripHostDeviceHost(t *testing.T) {
	mgr := newTestManager(t)

	tens, err := mgr.Tensor(3, F32, Device, nil)
	require.NoError(t, err)

	x := floatBytes(7, 8, 9)
	require.NoError(t, tens.SetHostData(x))

	seq, err := mgr.Sequence(0, 0)
	require.NoError(t, err)
	defer seq.Destroy()

	require.NoError(t, seq.Begin())
	require.NoError(t, seq.Record(NewSyncToDevice([]Memory{tens})))
	require.NoError(t, seq.Record(NewSyncToHost([]Memory{tens})))
	require.NoError(t, seq.End())
	require.NoError(t, seq.Eval())

	got, err := tens.RawHostPointer()
	require.NoError(t, err)
	assert.Equal(t, x, got)
}
