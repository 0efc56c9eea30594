package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	requireGPU(t)
	mgr, err := NewManager(ManagerOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Destroy() })
	return mgr
}

// TestManagerClearDropsCollectedEntries exercises the weak-reference
// bookkeeping described in spec.md §4.7: Clear() drops any weak entry
// whose referent has been garbage collected, without forcibly
// destroying anything still live.
func TestManagerClearDropsCollectedEntries(t *testing.T) {
	mgr := newTestManager(t)

	live, err := mgr.Tensor(3, F32, Device, floatBytes(0, 1, 2))
	require.NoError(t, err)

	func() {
		_, err := mgr.Tensor(3, F32, Device, floatBytes(0, 1, 2))
		require.NoError(t, err)
	}()

	require.NoError(t, mgr.Clear())
	require.True(t, live.IsInitialized())
}

// TestManagerListDevicesReturnsSingleAdapter documents the current
// WebGPU enumeration limitation (SPEC_FULL.md §3.7): ListDevices
// returns the one active adapter, not a real enumeration.
func TestManagerListDevicesReturnsSingleAdapter(t *testing.T) {
	mgr := newTestManager(t)
	devices := mgr.ListDevices()
	require.Len(t, devices, 1)
}

func TestManagerQueueCount(t *testing.T) {
	mgr := newTestManager(t)
	require.GreaterOrEqual(t, mgr.QueueCount(), 1)
}

// TestManagerMarkDeviceLostPoisonsFactories covers spec.md §7: once a
// Manager is marked device-lost, every subsequent factory call fails
// with KindDeviceLost.
func TestManagerMarkDeviceLostPoisonsFactories(t *testing.T) {
	mgr := newTestManager(t)

	mgr.MarkDeviceLost()

	_, err := mgr.Tensor(2, F32, Device, nil)
	require.Error(t, err)
	assert.Equal(t, KindDeviceLost, errKind(err))

	require.Error(t, mgr.Clear())
}
