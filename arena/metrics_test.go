package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Fresh(t *testing.T) {
	a := newTestArena(t, 100, 1)

	m, err := a.Metrics()
	require.NoError(t, err)
	assert.Equal(t, Metrics{
		Capacity:      100,
		FreeBytes:     92,
		OverheadBytes: 8,
		Blocks:        1,
		FreeBlocks:    1,
		LargestFree:   92,
	}, m)
}

func TestMetrics_Fragmented(t *testing.T) {
	a := newTestArena(t, 100, 1)

	refA := mustAlloc(t, a, 10)
	mustAlloc(t, a, 10)
	require.NoError(t, a.Deallocate(refA)) // [10 | -10 | 56]

	m, err := a.Metrics()
	require.NoError(t, err)

	assert.Equal(t, 3, m.Blocks)
	assert.Equal(t, 1, m.UsedBlocks)
	assert.Equal(t, 2, m.FreeBlocks)
	assert.Equal(t, 10, m.UsedBytes)
	assert.Equal(t, 66, m.FreeBytes)
	assert.Equal(t, 24, m.OverheadBytes)
	assert.Equal(t, 56, m.LargestFree)
	assert.Equal(t, m.Capacity, m.UsedBytes+m.FreeBytes+m.OverheadBytes)
	assert.InDelta(t, 0.10, m.Utilization, 1e-9)
	assert.InDelta(t, 1-56.0/66.0, m.Fragmentation, 1e-9)
}

func TestMetrics_Full(t *testing.T) {
	a := newTestArena(t, 100, 1)
	mustAlloc(t, a, 92)

	m, err := a.Metrics()
	require.NoError(t, err)
	assert.Equal(t, 0, m.FreeBytes)
	assert.Equal(t, 0.0, m.Fragmentation)
	assert.InDelta(t, 0.92, m.Utilization, 1e-9)
}

func TestMetrics_Corrupt(t *testing.T) {
	a := newTestArena(t, 100, 1)
	putRawTag(a, 96, 1)

	_, err := a.Metrics()
	require.ErrorIs(t, err, ErrCorrupt)
}
