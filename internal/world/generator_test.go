package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dantero-ps/voxelworld/internal/blockstate"
)

func TestDefaultTerrainGeneratorDeterministic(t *testing.T) {
	reg := blockstate.NewStaticRegistry()
	gen := NewDefaultTerrainGenerator(DefaultSettings(), reg)

	a := NewChunk(3, -2)
	b := NewChunk(3, -2)
	gen.Generate(42, 3, -2, a)
	gen.Generate(42, 3, -2, b)

	require.Equal(t, a.blocks, b.blocks)
}

func TestDefaultTerrainGeneratorProducesBedrockFloor(t *testing.T) {
	reg := blockstate.NewStaticRegistry()
	gen := NewDefaultTerrainGenerator(DefaultSettings(), reg)

	c := NewChunk(0, 0)
	gen.Generate(1, 0, 0, c)

	bedrockID, _ := reg.ByName("bedrock")
	require.Equal(t, bedrockID.NumericID(), c.BlockAt(0, 0, 0))
}

func TestDefaultTerrainGeneratorTopIsGrassOrSand(t *testing.T) {
	reg := blockstate.NewStaticRegistry()
	gen := NewDefaultTerrainGenerator(DefaultSettings(), reg)

	c := NewChunk(5, 5)
	gen.Generate(7, 5, 5, c)

	grassID, _ := reg.ByName("grass")
	sandID, _ := reg.ByName("sand")
	top := c.TopBlockZ(0, 0)
	require.GreaterOrEqual(t, top, 0)
	id := c.BlockAt(0, 0, top)
	require.True(t, id == grassID.NumericID() || id == sandID.NumericID())
}
