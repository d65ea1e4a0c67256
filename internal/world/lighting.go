package world

import "math"

// blockCoord is an absolute (x, y, z) block coordinate, used by the
// lighting engine's work queue where a BlockIterator would be heavier than
// needed.
type blockCoord struct{ X, Y, Z int32 }

// lightingEngine is the deferred BFS light propagator. It never recomputes
// a whole chunk at once: block changes and chunk activations enqueue the
// affected cells, and each world tick drains a bounded number of them,
// re-enqueueing neighbours whose value changed as a result.
type lightingEngine struct {
	queue  []blockCoord
	queued map[blockCoord]bool
}

func newLightingEngine() *lightingEngine {
	return &lightingEngine{queued: make(map[blockCoord]bool)}
}

func (e *lightingEngine) schedule(x, y, z int32) {
	if z < 0 || z >= ChunkSizeZ {
		return
	}
	c := blockCoord{x, y, z}
	if e.queued[c] {
		return
	}
	e.queue = append(e.queue, c)
	e.queued[c] = true
}

func (e *lightingEngine) pop() (blockCoord, bool) {
	if len(e.queue) == 0 {
		return blockCoord{}, false
	}
	c := e.queue[0]
	e.queue = e.queue[1:]
	delete(e.queued, c)
	return c, true
}

// ScheduleLight queues a block and its six neighbours for the next
// lighting pass. Called whenever a block is placed, dug, or a chunk
// becomes active next to an already-loaded neighbour.
func (w *World) ScheduleLight(x, y, z int32) {
	w.lighting.schedule(x, y, z)
	for _, d := range Directions() {
		dx, dy, dz := d.Offset()
		w.lighting.schedule(x+int32(dx), y+int32(dy), z+int32(dz))
	}
}

// ProcessLighting drains up to budget entries from the lighting queue,
// recomputing block and sky light at each and re-queuing any neighbour
// whose value changes as a result. This is step 5 of the per-tick
// procedure.
func (w *World) ProcessLighting(budget int) {
	for i := 0; i < budget; i++ {
		coord, ok := w.lighting.pop()
		if !ok {
			return
		}
		w.relax(coord)
	}
}

func (w *World) relax(coord blockCoord) {
	it := w.At(coord.X, coord.Y, coord.Z)
	c := it.chunk()
	if c == nil {
		return
	}
	x, y, z := it.Local()

	block := it.Block()
	newBlockLight := w.computeChannel(it, channelBlock, block.EmitsLight())

	skyBase := uint8(0)
	if c.IsSkyAt(x, y, z) {
		skyBase = 15
	}
	newSkyLight := w.computeChannel(it, channelSky, skyBase)

	oldBlockLight := c.BlockLightAt(x, y, z)
	oldSkyLight := c.SkyLightAt(x, y, z)
	if newBlockLight == oldBlockLight && newSkyLight == oldSkyLight {
		return
	}
	c.SetBlockLightAt(x, y, z, newBlockLight)
	c.SetSkyLightAt(x, y, z, newSkyLight)

	for _, d := range Directions() {
		n, ok := it.Neighbour(d)
		if !ok {
			continue
		}
		w.lighting.schedule(n.X, n.Y, n.Z)
	}
}

// lightChannel distinguishes the two independent light values tracked per
// block; computeChannel needs to know which one it's relaxing rather than
// inferring it from the base value (a light-emitting block in a
// sky-exposed column would make a 15-valued base ambiguous otherwise).
type lightChannel int

const (
	channelBlock lightChannel = iota
	channelSky
)

// computeChannel applies the shared light-relaxation formula: the light
// at a cell is the larger of its own source value (emission for block
// light, 15 for a sky-exposed cell for sky light) and the brightest
// neighbour after subtracting this cell's opacity (floored at 1, so even
// fully transparent blocks attenuate light by one level per step).
func (w *World) computeChannel(it BlockIterator, ch lightChannel, base uint8) uint8 {
	self := it.Block()
	opacity := self.Opacity()
	if opacity < 1 {
		opacity = 1
	}

	best := base
	for _, d := range Directions() {
		n, ok := it.Neighbour(d)
		if !ok {
			continue
		}
		var neighbourLight uint8
		if ch == channelBlock {
			neighbourLight = n.BlockLight()
		} else {
			neighbourLight = n.SkyLight()
		}
		candidate := int(neighbourLight) - int(opacity)
		if candidate > int(best) {
			best = uint8(candidate)
		}
	}
	if best > 15 {
		best = 15
	}
	return best
}

// SkyDarken returns the 0..11 darkening applied to raw sky light as a
// function of time of day. angle is the TimeProvider's [0, 1) day-cycle
// position; 0.5 is solar noon (darken == 0), 0/1 is midnight
// (darken == 11).
func SkyDarken(angle float64) int {
	cos := math.Cos(angle * 2 * math.Pi)
	v := 1 - (cos*2 + 0.2)
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int(math.Floor((1 - v) * 11))
}

// EffectiveSkyLight applies the current time-of-day darkening to a cell's
// raw sky light value.
func (w *World) EffectiveSkyLight(raw uint8) uint8 {
	angle := 0.5
	if w.timeProvider != nil {
		angle = w.timeProvider.Angle()
	}
	darkened := int(raw) - SkyDarken(angle)
	if darkened < 0 {
		darkened = 0
	}
	return uint8(darkened)
}
