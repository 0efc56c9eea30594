package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWorkgroupDefaultsFromFirstBufferBinding covers spec.md §4.4's
// workgroup-default rule: x<1 with a buffer as the first binding
// defaults the workgroup to (first_memory.size(), 1, 1).
func TestWorkgroupDefaultsFromFirstBufferBinding(t *testing.T) {
	mgr := newTestManager(t)

	a, err := mgr.Tensor(5, F32, Device, nil)
	require.NoError(t, err)
	b, err := mgr.Tensor(5, F32, Device, nil)
	require.NoError(t, err)
	out, err := mgr.Tensor(5, F32, Device, nil)
	require.NoError(t, err)

	algo, err := mgr.Algorithm(AlgorithmSpec{
		Bindings: []Memory{a, b, out},
		Spirv:    multiplySPIRV,
	})
	require.NoError(t, err)

	assert.Equal(t, [3]uint32{5, 1, 1}, algo.Workgroup())
}

// TestPushConstantShapeMismatchRejected covers spec.md §4.4's
// push-constant-shape-mismatch edge case.
func TestPushConstantShapeMismatchRejected(t *testing.T) {
	mgr := newTestManager(t)

	a, err := mgr.Tensor(4, F32, Device, nil)
	require.NoError(t, err)

	algo, err := mgr.Algorithm(AlgorithmSpec{
		Bindings:      []Memory{a},
		Spirv:         multiplySPIRV,
		Workgroup:     [3]int{4, 1, 1},
		PushConstants: floatBytes(1, 2),
		PushElemSize:  4,
	})
	require.NoError(t, err)

	err = algo.RecordBindPush(floatBytes(1, 2, 3), 3, 4)
	require.Error(t, err)
	assert.Equal(t, KindPushConstantShapeMismatch, errKind(err))
}

// TestAlgorithmRebuildSucceeds covers the successful Rebuild path of
// spec.md §4.4: after rebuilding with a new binding list and
// workgroup, the algorithm is initialized and reports the new
// workgroup.
func TestAlgorithmRebuildSucceeds(t *testing.T) {
	mgr := newTestManager(t)

	a, err := mgr.Tensor(3, F32, Device, nil)
	require.NoError(t, err)

	algo, err := mgr.Algorithm(AlgorithmSpec{
		Bindings:  []Memory{a},
		Spirv:     multiplySPIRV,
		Workgroup: [3]int{3, 1, 1},
	})
	require.NoError(t, err)
	require.True(t, algo.IsInitialized())

	b, err := mgr.Tensor(6, F32, Device, nil)
	require.NoError(t, err)
	require.NoError(t, algo.Rebuild(AlgorithmSpec{
		Bindings:  []Memory{b},
		Spirv:     multiplySPIRV,
		Workgroup: [3]int{6, 1, 1},
	}))

	assert.True(t, algo.IsInitialized())
	assert.Equal(t, [3]uint32{6, 1, 1}, algo.Workgroup())
}
