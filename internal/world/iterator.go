package world

import "github.com/dantero-ps/voxelworld/internal/blockstate"

// BlockIterator addresses a single block by its absolute world coordinates.
// It intentionally carries a World reference and coordinates rather than a
// cached *Chunk pointer: chunks are freed and re-allocated as they load,
// generate and unload, so a long-lived iterator (e.g. one a caller keeps
// across several World.Update ticks) must re-resolve its chunk on every
// access instead of risking a stale pointer into a chunk that no longer
// backs that coordinate.
type BlockIterator struct {
	world      *World
	X, Y       int32 // absolute block coordinates
	Z          int32 // absolute vertical coordinate, 0..ChunkSizeZ-1
}

// At builds an iterator for the given absolute block coordinates. It does
// not validate that a chunk is currently loaded there.
func (w *World) At(x, y, z int32) BlockIterator {
	return BlockIterator{world: w, X: x, Y: y, Z: z}
}

// ChunkCoord returns the chunk column this iterator's block falls in.
func (it BlockIterator) ChunkCoord() ChunkCoord {
	return ChunkCoord{X: floorDiv(it.X, ChunkSizeX), Y: floorDiv(it.Y, ChunkSizeY)}
}

// Local returns this iterator's coordinates local to its owning chunk.
func (it BlockIterator) Local() (x, y, z int) {
	cc := it.ChunkCoord()
	return int(it.X - cc.X*ChunkSizeX), int(it.Y - cc.Y*ChunkSizeY), int(it.Z)
}

// chunk resolves the live *Chunk backing this iterator's coordinate, or
// nil if that chunk isn't currently loaded.
func (it BlockIterator) chunk() *Chunk {
	cc := it.ChunkCoord()
	return it.world.chunkAt(cc)
}

// Block resolves the blockstate.State at this coordinate, or air if the
// owning chunk isn't loaded or z is out of the vertical range.
func (it BlockIterator) Block() blockstate.State {
	if it.Z < 0 || it.Z >= ChunkSizeZ {
		return it.world.registry.Air()
	}
	c := it.chunk()
	if c == nil {
		return it.world.registry.Air()
	}
	x, y, z := it.Local()
	return c.Resolve(it.world.registry, x, y, z)
}

// Loaded reports whether this coordinate's chunk is currently resident.
func (it BlockIterator) Loaded() bool {
	return it.chunk() != nil
}

// SkyLight returns the sky light level (0..15) at this coordinate.
func (it BlockIterator) SkyLight() uint8 {
	c := it.chunk()
	if c == nil || it.Z < 0 || it.Z >= ChunkSizeZ {
		return 0
	}
	x, y, z := it.Local()
	return c.SkyLightAt(x, y, z)
}

// BlockLight returns the block light level (0..15) at this coordinate.
func (it BlockIterator) BlockLight() uint8 {
	c := it.chunk()
	if c == nil || it.Z < 0 || it.Z >= ChunkSizeZ {
		return 0
	}
	x, y, z := it.Local()
	return c.BlockLightAt(x, y, z)
}

// IsSky reports whether this coordinate is sky-exposed.
func (it BlockIterator) IsSky() bool {
	c := it.chunk()
	if c == nil || it.Z < 0 || it.Z >= ChunkSizeZ {
		return false
	}
	x, y, z := it.Local()
	return c.IsSkyAt(x, y, z)
}

// Neighbour steps one block in dir, returning the new iterator and whether
// the step stayed within the world's vertical bounds (it always does
// horizontally, since chunks tile infinitely).
func (it BlockIterator) Neighbour(dir Direction) (BlockIterator, bool) {
	dx, dy, dz := dir.Offset()
	nz := it.Z + int32(dz)
	if nz < 0 || nz >= ChunkSizeZ {
		return BlockIterator{}, false
	}
	return BlockIterator{world: it.world, X: it.X + int32(dx), Y: it.Y + int32(dy), Z: nz}, true
}

// floorDiv is integer division that rounds toward negative infinity,
// matching the region/chunk coordinate convention used throughout the
// storage layer.
func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
