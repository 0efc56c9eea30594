package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryBarrierTransitionsSelectedTarget is invariant I2 exercised
// through the explicit MemoryBarrier operation rather than the copy
// path: a primary-target barrier moves only the primary layout to
// General, and a staging-target barrier only the staging layout.
func TestMemoryBarrierTransitionsSelectedTarget(t *testing.T) {
	mgr := newTestManager(t)

	img, err := mgr.Image(2, 2, R, F32, Device, Optimal, nil)
	require.NoError(t, err)

	seq, err := mgr.Sequence(0, 0)
	require.NoError(t, err)
	defer seq.Destroy()

	require.NoError(t, seq.Begin())
	require.NoError(t, seq.Record(NewMemoryBarrier([]Memory{img}, "shaderWrite", "transferRead", "compute", "transfer", BarrierPrimary)))
	require.NoError(t, seq.End())
	require.NoError(t, seq.Eval())

	assert.Equal(t, LayoutGeneral, img.PrimaryLayout())
	assert.Equal(t, LayoutUndefined, img.StagingLayout())
}
