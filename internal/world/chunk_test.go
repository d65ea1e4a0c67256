package world

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockIndexCoversFullRange(t *testing.T) {
	seen := make(map[int]bool, BlockCount)
	for z := 0; z < ChunkSizeZ; z++ {
		for y := 0; y < ChunkSizeY; y++ {
			for x := 0; x < ChunkSizeX; x++ {
				idx := blockIndex(x, y, z)
				require.False(t, seen[idx], "duplicate index %d at (%d,%d,%d)", idx, x, y, z)
				require.True(t, idx >= 0 && idx < BlockCount)
				seen[idx] = true
			}
		}
	}
	require.Len(t, seen, BlockCount)
}

func TestSetBlockAtAndBlockAtRoundTrip(t *testing.T) {
	c := NewChunk(0, 0)
	require.Equal(t, uint8(0), c.BlockAt(1, 2, 3))
	c.SetBlockAt(1, 2, 3, 42)
	require.Equal(t, uint8(42), c.BlockAt(1, 2, 3))
	require.True(t, c.Modified)
}

func TestSetBlockAtOutOfBoundsIsNoOp(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlockAt(-1, 0, 0, 9)
	c.SetBlockAt(0, 0, ChunkSizeZ, 9)
	require.False(t, c.Modified)
}

func TestLightNibblesPackIndependently(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetSkyLightAt(2, 2, 2, 15)
	c.SetBlockLightAt(2, 2, 2, 7)
	require.Equal(t, uint8(15), c.SkyLightAt(2, 2, 2))
	require.Equal(t, uint8(7), c.BlockLightAt(2, 2, 2))

	c.SetBlockLightAt(2, 2, 2, 3)
	require.Equal(t, uint8(15), c.SkyLightAt(2, 2, 2), "changing block light must not disturb sky light")
	require.Equal(t, uint8(3), c.BlockLightAt(2, 2, 2))
}

func TestSetLightClampsToNibbleRange(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetSkyLightAt(0, 0, 0, 255)
	require.Equal(t, uint8(15), c.SkyLightAt(0, 0, 0))
}

func TestTopBlockZ(t *testing.T) {
	c := NewChunk(0, 0)
	require.Equal(t, -1, c.TopBlockZ(0, 0))
	c.SetBlockAt(0, 0, 5, 1)
	c.SetBlockAt(0, 0, 10, 1)
	require.Equal(t, 10, c.TopBlockZ(0, 0))
}

func TestSnapshotBlockIDsIsADeepCopy(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlockAt(0, 0, 0, 5)
	snap := c.SnapshotBlockIDs()
	c.SetBlockAt(0, 0, 0, 9)
	require.Equal(t, uint8(5), snap[blockIndex(0, 0, 0)])
	require.Equal(t, uint8(9), c.BlockAt(0, 0, 0))
}

func TestLoadBlockIDsOverwritesWholeBuffer(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlockAt(0, 0, 0, 5)
	ids := make([]uint8, BlockCount)
	ids[blockIndex(1, 1, 1)] = 77
	c.LoadBlockIDs(ids)
	require.Equal(t, uint8(0), c.BlockAt(0, 0, 0))
	require.Equal(t, uint8(77), c.BlockAt(1, 1, 1))
}
