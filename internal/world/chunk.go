package world

import "github.com/dantero-ps/voxelworld/internal/blockstate"

// Chunk dimensions. A chunk is a flat column sixteen blocks wide on each
// horizontal axis and a hundred twenty eight blocks tall, addressed by a
// packed 15-bit index so every block in it fits in a single flat array.
const (
	ChunkBitsX = 4
	ChunkBitsY = 4
	ChunkBitsZ = 7

	ChunkSizeX = 1 << ChunkBitsX
	ChunkSizeY = 1 << ChunkBitsY
	ChunkSizeZ = 1 << ChunkBitsZ

	BlockCount = ChunkSizeX * ChunkSizeY * ChunkSizeZ
)

// blockIndex packs local coordinates into the flat array offset used by
// every per-block slice on Chunk. Callers are expected to have already
// bounds-checked x, y and z; it performs no range checking itself.
func blockIndex(x, y, z int) int {
	return (z << (ChunkBitsX + ChunkBitsY)) | (y << ChunkBitsX) | x
}

// InBounds reports whether local coordinates address a real block in a
// chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSizeX &&
		y >= 0 && y < ChunkSizeY &&
		z >= 0 && z < ChunkSizeZ
}

// Chunk is one vertical column of the world. Its block buffer is always
// fully allocated: there is no sparse/empty representation, since the
// ESF/ESFS codecs and the lighting engine both want a flat array to work
// against.
type Chunk struct {
	CoordX, CoordY int32

	state ChunkState

	// Generated is true once terrain generation (or a load from disk) has
	// populated blocks. Generated chunks that have never been touched by
	// a player or game logic since are not re-saved under
	// SaveModifiedOnly/SavePlayerModifiedOnly strategies.
	Generated bool
	// Modified is true once any block in this chunk has changed since it
	// was loaded or last saved, regardless of who made the change. A
	// freshly generated chunk starts out Modified.
	Modified bool
	// PlayerModified is true once a player-attributed edit (dig/place) has
	// touched this chunk. SavePlayerModifiedOnly only persists chunks with
	// this flag set.
	PlayerModified bool

	blocks [BlockCount]uint8

	// light packs sky light (high nibble) and block light (low nibble)
	// for each block, 0..15 each.
	light [BlockCount]uint8

	// isSky marks columns open to the sky: bit i is set when block i is
	// the topmost non-air-equivalent cell's column has no occluding block
	// above it (exposed directly or through transparent blocks only).
	isSky bitset

	// MeshHandle is an opaque renderer-owned handle invalidated whenever
	// the chunk's blocks change; the voxel core never inspects it.
	MeshHandle any
}

// NewChunk allocates an all-air chunk at the given chunk coordinates.
func NewChunk(coordX, coordY int32) *Chunk {
	return &Chunk{
		CoordX: coordX,
		CoordY: coordY,
		state:  StateInactive,
		isSky:  newBitset(BlockCount),
	}
}

// State returns the chunk's current lifecycle state.
func (c *Chunk) State() ChunkState { return c.state }

// BlockAt returns the numeric block ID at local coordinates, or 0 (air)
// if out of bounds.
func (c *Chunk) BlockAt(x, y, z int) uint8 {
	if !InBounds(x, y, z) {
		return 0
	}
	return c.blocks[blockIndex(x, y, z)]
}

// SetBlockAt writes a numeric block ID at local coordinates and marks the
// chunk modified if the value actually changed. It is a no-op outside
// chunk bounds. Callers that need lighting/mesh/save-strategy side effects
// should go through World.SetBlockProgrammatic or World.SetBlockByPlayer
// instead of calling this directly.
func (c *Chunk) SetBlockAt(x, y, z int, id uint8) {
	if !InBounds(x, y, z) {
		return
	}
	idx := blockIndex(x, y, z)
	if c.blocks[idx] == id {
		return
	}
	c.blocks[idx] = id
	c.Modified = true
}

// SkyLightAt returns the sky light level (0..15) at local coordinates.
func (c *Chunk) SkyLightAt(x, y, z int) uint8 {
	if !InBounds(x, y, z) {
		return 0
	}
	return c.light[blockIndex(x, y, z)] >> 4
}

// SetSkyLightAt writes the sky light level (0..15, clamped) at local
// coordinates.
func (c *Chunk) SetSkyLightAt(x, y, z int, level uint8) {
	if !InBounds(x, y, z) {
		return
	}
	level = clampNibble(level)
	idx := blockIndex(x, y, z)
	c.light[idx] = (level << 4) | (c.light[idx] & 0x0F)
}

// BlockLightAt returns the block light level (0..15) at local coordinates.
func (c *Chunk) BlockLightAt(x, y, z int) uint8 {
	if !InBounds(x, y, z) {
		return 0
	}
	return c.light[blockIndex(x, y, z)] & 0x0F
}

// SetBlockLightAt writes the block light level (0..15, clamped) at local
// coordinates.
func (c *Chunk) SetBlockLightAt(x, y, z int, level uint8) {
	if !InBounds(x, y, z) {
		return
	}
	level = clampNibble(level)
	idx := blockIndex(x, y, z)
	c.light[idx] = (c.light[idx] & 0xF0) | level
}

func clampNibble(v uint8) uint8 {
	if v > 15 {
		return 15
	}
	return v
}

// IsSkyAt reports whether local coordinates are sky-exposed: nothing
// opaque sits above them in this column.
func (c *Chunk) IsSkyAt(x, y, z int) bool {
	if !InBounds(x, y, z) {
		return false
	}
	return c.isSky.get(blockIndex(x, y, z))
}

// SetIsSkyAt marks a block sky-exposed or not.
func (c *Chunk) SetIsSkyAt(x, y, z int, sky bool) {
	if !InBounds(x, y, z) {
		return
	}
	c.isSky.set(blockIndex(x, y, z), sky)
}

// TopBlockZ returns the highest z with a non-air block in column (x, y),
// or -1 if the column is entirely air.
func (c *Chunk) TopBlockZ(x, y int) int {
	if x < 0 || x >= ChunkSizeX || y < 0 || y >= ChunkSizeY {
		return -1
	}
	for z := ChunkSizeZ - 1; z >= 0; z-- {
		if c.blocks[blockIndex(x, y, z)] != 0 {
			return z
		}
	}
	return -1
}

// SnapshotBlockIDs returns a deep copy of this chunk's block buffer,
// suitable for handing to a save job that runs concurrently with further
// in-place mutation of the live chunk.
func (c *Chunk) SnapshotBlockIDs() []uint8 {
	out := make([]uint8, BlockCount)
	copy(out, c.blocks[:])
	return out
}

// LoadBlockIDs overwrites the entire block buffer, e.g. after a disk load
// or generation job completes. It does not set Modified; the orchestrator
// marks freshly generated chunks Modified and leaves loaded ones clean.
func (c *Chunk) LoadBlockIDs(ids []uint8) {
	n := copy(c.blocks[:], ids)
	for i := n; i < BlockCount; i++ {
		c.blocks[i] = 0
	}
}

// Resolve looks up the blockstate.State for the block at local coordinates
// via reg, returning air if the ID is unknown to the registry.
func (c *Chunk) Resolve(reg blockstate.Registry, x, y, z int) blockstate.State {
	id := c.BlockAt(x, y, z)
	if id == 0 {
		return reg.Air()
	}
	st, ok := reg.ByNumericID(id)
	if !ok {
		return reg.Air()
	}
	return st
}
