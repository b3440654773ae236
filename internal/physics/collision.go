package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type BlockStore interface {
	IsSolid(x, y, z int) bool
}

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// SkaterAABB returns the skater box for a feet-centred position.
func SkaterAABB(pos mgl64.Vec3) AABB {
	return AABB{
		Min: mgl64.Vec3{pos.X() - SkaterHalfWidth, pos.Y(), pos.Z() - SkaterHalfDepth},
		Max: mgl64.Vec3{pos.X() + SkaterHalfWidth, pos.Y() + SkaterHeight, pos.Z() + SkaterHalfDepth},
	}
}

func CollidesWithBlock(aabb AABB, blockStore BlockStore) bool {
	if blockStore == nil {
		return false
	}

	for y := floorForMin(aabb.Min.Y()); y <= floorForMax(aabb.Max.Y()); y++ {
		for x := floorForMin(aabb.Min.X()); x <= floorForMax(aabb.Max.X()); x++ {
			for z := floorForMin(aabb.Min.Z()); z <= floorForMax(aabb.Max.Z()); z++ {
				if !blockStore.IsSolid(x, y, z) {
					continue
				}
				block := AABB{
					Min: mgl64.Vec3{float64(x), float64(y), float64(z)},
					Max: mgl64.Vec3{float64(x + 1), float64(y + 1), float64(z + 1)},
				}
				if intersects(aabb, block) {
					return true
				}
			}
		}
	}

	return false
}

// ResolveMovement moves pos by delta one axis at a time (Y, X, Z), stopping
// each axis at the first solid block. blocked reports the axes that were cut.
func ResolveMovement(pos, delta mgl64.Vec3, blockStore BlockStore) (mgl64.Vec3, [3]bool) {
	var blocked [3]bool
	for _, axis := range [3]int{1, 0, 2} {
		allowed := resolveAxis(pos, axis, delta[axis], blockStore)
		pos[axis] += allowed
		blocked[axis] = !nearlyEqual(allowed, delta[axis])
	}
	return pos, blocked
}

func resolveAxis(pos mgl64.Vec3, axis int, delta float64, blockStore BlockStore) float64 {
	if blockStore == nil || nearlyZero(delta) {
		return delta
	}

	aabb := SkaterAABB(pos)
	u, w := crossAxes(axis)
	uMin, uMax := floorForMin(aabb.Min[u]), floorForMax(aabb.Max[u])
	wMin, wMax := floorForMin(aabb.Min[w]), floorForMax(aabb.Max[w])

	sliceSolid := func(c int) bool {
		for i := uMin; i <= uMax; i++ {
			for j := wMin; j <= wMax; j++ {
				var cell [3]int
				cell[axis], cell[u], cell[w] = c, i, j
				if blockStore.IsSolid(cell[0], cell[1], cell[2]) {
					return true
				}
			}
		}
		return false
	}

	if delta > 0 {
		end := int(math.Floor(aabb.Max[axis] + delta))
		for c := floorForMax(aabb.Max[axis]) + 1; c <= end; c++ {
			if sliceSolid(c) {
				return math.Min(delta, float64(c)-aabb.Max[axis])
			}
		}
		return delta
	}

	end := int(math.Floor(aabb.Min[axis] + delta))
	for c := floorForMin(aabb.Min[axis]) - 1; c >= end; c-- {
		if sliceSolid(c) {
			return math.Max(delta, float64(c+1)-aabb.Min[axis])
		}
	}
	return delta
}

func crossAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

func floorForMin(v float64) int {
	return int(math.Floor(v + CollisionAxisTolerance))
}

func floorForMax(v float64) int {
	return int(math.Floor(v - CollisionAxisTolerance))
}

func intersects(a, b AABB) bool {
	return a.Min.X() < b.Max.X() &&
		a.Max.X() > b.Min.X() &&
		a.Min.Y() < b.Max.Y() &&
		a.Max.Y() > b.Min.Y() &&
		a.Min.Z() < b.Max.Z() &&
		a.Max.Z() > b.Min.Z()
}

func nearlyZero(v float64) bool {
	return math.Abs(v) <= CollisionAxisTolerance
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= CollisionAxisTolerance
}
