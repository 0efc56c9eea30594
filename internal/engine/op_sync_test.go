package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSyncToDeviceSkipsNonDeviceClass covers spec.md §4.5.1: targets
// that aren't Device class are left untouched (no staging buffer to
// copy from).
func TestSyncToDeviceSkipsNonDeviceClass(t *testing.T) {
	mgr := newTestManager(t)

	host, err := mgr.Tensor(2, F32, Host, floatBytes(1, 2))
	require.NoError(t, err)

	seq, err := mgr.Sequence(0, 0)
	require.NoError(t, err)
	defer seq.Destroy()

	require.NoError(t, seq.Begin())
	require.NoError(t, seq.Record(NewSyncToDevice([]Memory{host})))
	require.NoError(t, seq.End())
	require.NoError(t, seq.Eval())

	got, err := host.RawHostPointer()
	require.NoError(t, err)
	assert.Equal(t, floatBytes(1, 2), got)
}

// TestSyncToHostRefreshesOnlyDeviceTargets ensures SyncToHost doesn't
// attempt a host-mirror refresh (and thus a host-access error) against
// a Storage-class object mixed into the same target list.
func TestSyncToHostRefreshesOnlyDeviceTargets(t *testing.T) {
	mgr := newTestManager(t)

	dev, err := mgr.Tensor(2, F32, Device, floatBytes(3, 4))
	require.NoError(t, err)
	storage, err := mgr.Tensor(2, F32, Storage, nil)
	require.NoError(t, err)

	seq, err := mgr.Sequence(0, 0)
	require.NoError(t, err)
	defer seq.Destroy()

	require.NoError(t, seq.Begin())
	require.NoError(t, seq.Record(NewSyncToDevice([]Memory{dev})))
	require.NoError(t, seq.Record(NewSyncToHost([]Memory{dev, storage})))
	require.NoError(t, seq.End())
	require.NoError(t, seq.Eval())

	got, err := dev.RawHostPointer()
	require.NoError(t, err)
	assert.Equal(t, floatBytes(3, 4), got)
}
