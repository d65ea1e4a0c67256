// Package physics implements the voxel-grid DDA raycast consumed by
// dig/place interaction. It is kept alongside the core (rather than
// folded into world) because it is a pure client of the chunk index: it
// only reads blocks through a BlockIterator, never mutates the world.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dantero-ps/voxelworld/internal/world"
)

// Result is the outcome of a single raycast against the voxel grid.
type Result struct {
	DidImpact  bool
	ImpactPos  mgl32.Vec3
	ImpactDist float32
	// ImpactNormal is the outward face normal of the block that was hit,
	// expressed as a unit axis vector. It is the zero vector when the ray
	// originates inside a solid block (there is no face to report).
	ImpactNormal mgl32.Vec3
	RayStart     mgl32.Vec3
	RayDir       mgl32.Vec3
	RayMax       float32

	HitIterator world.BlockIterator
	HitFace     world.Direction
	hasFace     bool
}

// HasFace reports whether HitFace is meaningful (false for the
// origin-inside-solid-block edge case).
func (r Result) HasFace() bool { return r.hasFace }

const noHitSentinel = math.MaxFloat32

// RaycastVsBlocks walks a 3D fast-voxel traversal (Amanatides & Woo DDA)
// from origin along dir, stepping one block at a time until it finds a
// full-opaque block or exhausts maxLen. Cells in unloaded chunks or outside
// the vertical range read as air, so the walk continues through them.
// origin must already be in absolute block-space units; dir need not be
// normalized.
func RaycastVsBlocks(w *world.World, origin, dir mgl32.Vec3, maxLen float32) Result {
	res := Result{RayStart: origin, RayDir: dir, RayMax: maxLen}

	ix := int32(math.Floor(float64(origin.X())))
	iy := int32(math.Floor(float64(origin.Y())))
	iz := int32(math.Floor(float64(origin.Z())))

	if w.At(ix, iy, iz).Block().IsFullOpaque() {
		res.DidImpact = true
		res.ImpactPos = origin
		res.ImpactDist = 0
		res.HitIterator = w.At(ix, iy, iz)
		return res
	}
	if maxLen <= 0 {
		return res
	}

	stepX, tDeltaX, tMaxX := axisPlan(origin.X(), dir.X(), ix)
	stepY, tDeltaY, tMaxY := axisPlan(origin.Y(), dir.Y(), iy)
	stepZ, tDeltaZ, tMaxZ := axisPlan(origin.Z(), dir.Z(), iz)

	var traveled float32
	var lastAxis int // 0=x, 1=y, 2=z
	for traveled <= maxLen {
		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			traveled = tMaxX
			ix += stepX
			tMaxX += tDeltaX
			lastAxis = 0
		case tMaxY <= tMaxZ:
			traveled = tMaxY
			iy += stepY
			tMaxY += tDeltaY
			lastAxis = 1
		default:
			traveled = tMaxZ
			iz += stepZ
			tMaxZ += tDeltaZ
			lastAxis = 2
		}
		if traveled > maxLen {
			break
		}

		it := w.At(ix, iy, iz)
		if it.Block().IsFullOpaque() {
			res.DidImpact = true
			res.ImpactDist = traveled
			res.ImpactPos = origin.Add(dir.Mul(traveled))
			res.HitIterator = it
			res.HitFace, res.hasFace = faceFromStep(lastAxis, stepX, stepY, stepZ)
			res.ImpactNormal = normalFromFace(res.HitFace)
			return res
		}
	}

	return res
}

// axisPlan computes one axis's step direction, the distance between
// successive grid crossings, and the distance to the first crossing,
// using |1/dir| with a +Inf sentinel for a zero component so that axis
// never wins the next-step comparison.
func axisPlan(origin, d float32, voxel int32) (step int32, tDelta, tMax float32) {
	switch {
	case d > 0:
		step = 1
		tDelta = 1 / d
		tMax = (float32(voxel+1) - origin) * tDelta
	case d < 0:
		step = -1
		tDelta = 1 / -d
		tMax = (origin - float32(voxel)) * tDelta
	default:
		step = 0
		tDelta = noHitSentinel
		tMax = noHitSentinel
	}
	return
}

func faceFromStep(axis int, stepX, stepY, stepZ int32) (world.Direction, bool) {
	switch axis {
	case 0:
		if stepX > 0 {
			return world.West, true
		}
		return world.East, true
	case 1:
		if stepY > 0 {
			return world.South, true
		}
		return world.North, true
	default:
		if stepZ > 0 {
			return world.Down, true
		}
		return world.Up, true
	}
}

func normalFromFace(d world.Direction) mgl32.Vec3 {
	dx, dy, dz := d.Offset()
	return mgl32.Vec3{float32(dx), float32(dy), float32(dz)}
}
