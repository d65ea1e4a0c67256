package world

import "github.com/dantero-ps/voxelworld/internal/blockstate"

// PlacementContext carries everything a contextual block placement needs
// to resolve which cell actually receives the held block: the raycast hit
// that triggered it, and the two candidate cells on either side of the
// struck face.
type PlacementContext struct {
	Clicked  [3]int32 // the block the raycast actually hit
	Target   [3]int32 // the empty/replaceable cell adjacent to Clicked along Face
	Face     Direction
	HitPoint [3]float64
	LookDir  [3]float64
	Held     uint8 // numeric block ID of the block being placed
}

// SetBlockProgrammatic writes a block as a result of game logic (world
// generation, scripted edits) rather than a player action: it marks the
// chunk Modified but not PlayerModified, so SavePlayerModifiedOnly leaves
// it out of persisted saves.
func (w *World) SetBlockProgrammatic(x, y, z int32, id uint8) bool {
	return w.setBlock(x, y, z, id, false)
}

// SetBlockByPlayer writes a block as a direct result of a player action
// (dig/place), marking the chunk both Modified and PlayerModified.
func (w *World) SetBlockByPlayer(x, y, z int32, id uint8) bool {
	return w.setBlock(x, y, z, id, true)
}

func (w *World) setBlock(x, y, z int32, id uint8, playerModified bool) bool {
	it := w.At(x, y, z)
	c := it.chunk()
	if c == nil || z < 0 || z >= ChunkSizeZ {
		return false
	}
	lx, ly, lz := it.Local()
	if c.BlockAt(lx, ly, lz) == id {
		return false
	}
	c.SetBlockAt(lx, ly, lz, id)
	if playerModified {
		c.PlayerModified = true
	}
	w.recomputeSkyColumn(c, lx, ly)
	w.ScheduleLight(x, y, z)
	w.markMeshDirty(ChunkCoord{X: c.CoordX, Y: c.CoordY})
	for _, d := range Directions() {
		if n, ok := it.Neighbour(d); ok {
			if nCoord := n.ChunkCoord(); nCoord != (ChunkCoord{X: c.CoordX, Y: c.CoordY}) && n.Loaded() {
				w.markMeshDirty(nCoord)
			}
		}
	}
	return true
}

// recomputeSkyColumn re-derives is_sky for every z in column (lx, ly) of
// c after a block there changed: everything from the new top block
// downward loses direct sky exposure, everything above it regains it.
func (w *World) recomputeSkyColumn(c *Chunk, lx, ly int) {
	top := c.TopBlockZ(lx, ly)
	for z := 0; z < ChunkSizeZ; z++ {
		c.SetIsSkyAt(lx, ly, z, z > top)
	}
}

// DigBlock removes the block at absolute coordinates on behalf of a
// player action. It is a no-op (returns false) if the cell is already air
// or its chunk isn't loaded.
func (w *World) DigBlock(x, y, z int32) bool {
	it := w.At(x, y, z)
	if it.Block().IsAir() {
		return false
	}
	return w.SetBlockByPlayer(x, y, z, 0)
}

// PlaceBlock resolves ctx against the live world and writes Held into
// whichever cell the contextual rules select, in order: (1) a
// non-air replaceable block the raycast directly clicked on (e.g. a slab
// merge) is overwritten in place at Clicked; (2) failing that, a non-air
// replaceable Target cell (e.g. tall grass standing where the new block
// would go) is overwritten; (3) failing that, Target is used if and only
// if it is air. Returns false if none of the three apply.
func (w *World) PlaceBlock(ctx PlacementContext, reg blockstate.Registry) bool {
	clicked := w.GetBlockState(ctx.Clicked[0], ctx.Clicked[1], ctx.Clicked[2])
	if clicked.CanBeReplaced() && !clicked.IsAir() {
		if w.SetBlockByPlayer(ctx.Clicked[0], ctx.Clicked[1], ctx.Clicked[2], ctx.Held) {
			w.onNeighbourChanged(ctx.Clicked)
			return true
		}
	}

	target := w.GetBlockState(ctx.Target[0], ctx.Target[1], ctx.Target[2])
	if !target.IsAir() && target.CanBeReplaced() {
		if w.SetBlockByPlayer(ctx.Target[0], ctx.Target[1], ctx.Target[2], ctx.Held) {
			w.onNeighbourChanged(ctx.Target)
			return true
		}
	}

	if target.IsAir() {
		if w.SetBlockByPlayer(ctx.Target[0], ctx.Target[1], ctx.Target[2], ctx.Held) {
			w.onNeighbourChanged(ctx.Target)
			return true
		}
	}

	return false
}

// PlaceBlockSimple writes state into the cell iter addresses, refusing if
// that cell isn't air. Unlike PlaceBlock it performs no raycast resolution
// or replaceable-block overwriting; it is the plain placement operation
// used where a caller has already picked the exact target cell.
func (w *World) PlaceBlockSimple(iter BlockIterator, state blockstate.State) bool {
	if !iter.Block().IsAir() {
		return false
	}
	if !w.SetBlockByPlayer(iter.X, iter.Y, iter.Z, state.NumericID()) {
		return false
	}
	w.onNeighbourChanged([3]int32{iter.X, iter.Y, iter.Z})
	return true
}

// onNeighbourChanged notifies the six neighbours of a changed cell by
// queueing their light and mesh state for recomputation. Capabilities that
// need richer neighbour-change hooks (e.g. redstone-style logic) are
// expected to poll DrainDirtyMeshes rather than extend this.
func (w *World) onNeighbourChanged(coord [3]int32) {
	it := w.At(coord[0], coord[1], coord[2])
	for _, d := range Directions() {
		if n, ok := it.Neighbour(d); ok {
			w.ScheduleLight(n.X, n.Y, n.Z)
			if nc := n.chunk(); nc != nil {
				w.markMeshDirty(ChunkCoord{X: nc.CoordX, Y: nc.CoordY})
			}
		}
	}
}
