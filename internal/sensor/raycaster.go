package sensor

import (
	"math"

	"github.com/Versifine/glide/internal/physics"
	"github.com/Versifine/glide/internal/world"
	"github.com/go-gl/mathgl/mgl64"
)

// LayerGrid is the geometry a Raycaster walks.
type LayerGrid interface {
	LayerAt(x, y, z int) world.Layer
}

type Hit struct {
	Distance float64
	Normal   mgl64.Vec3
	Cell     world.Cell
	Layer    world.Layer
}

// Raycaster answers ground and wall probes against a voxel grid. It holds no
// mutable state, so probes may be issued any number of times per tick.
type Raycaster struct {
	grid LayerGrid
}

func NewRaycaster(grid LayerGrid) *Raycaster {
	return &Raycaster{grid: grid}
}

// ProbeGround reports whether ground lies straight below origin within distance.
func (r *Raycaster) ProbeGround(origin mgl64.Vec3, distance float64) bool {
	_, ok := r.Cast(origin, physics.WorldDown, distance, world.LayerGround)
	return ok
}

// ProbeWall casts along direction against walls and returns the face normal
// of the first wall cell hit.
func (r *Raycaster) ProbeWall(origin, direction mgl64.Vec3, distance float64) (mgl64.Vec3, bool) {
	hit, ok := r.Cast(origin, direction, distance, world.LayerWall)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return hit.Normal, true
}

// Cast walks grid cells along the ray (Amanatides-Woo traversal) and returns
// the first cell whose layer intersects mask. The cell containing origin is
// never reported.
func (r *Raycaster) Cast(origin, direction mgl64.Vec3, maxDist float64, mask world.Layer) (Hit, bool) {
	if r == nil || r.grid == nil || mask == world.LayerNone {
		return Hit{}, false
	}
	if !(maxDist >= 0) || math.IsInf(maxDist, 0) || !finite(origin) {
		return Hit{}, false
	}
	dir, ok := physics.SafeNormalize(direction)
	if !ok {
		return Hit{}, false
	}

	var (
		cell   [3]int
		step   [3]int
		tMax   [3]float64
		tDelta [3]float64
	)
	for i := 0; i < 3; i++ {
		cell[i] = int(math.Floor(origin[i]))
		switch {
		case dir[i] > 0:
			step[i] = 1
			tMax[i] = (float64(cell[i]+1) - origin[i]) / dir[i]
			tDelta[i] = 1 / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tMax[i] = (origin[i] - float64(cell[i])) / -dir[i]
			tDelta[i] = -1 / dir[i]
		default:
			tMax[i] = math.Inf(1)
			tDelta[i] = math.Inf(1)
		}
	}

	for {
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}

		t := tMax[axis]
		if t > maxDist {
			return Hit{}, false
		}
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]

		layer := r.grid.LayerAt(cell[0], cell[1], cell[2])
		if layer&mask == 0 {
			continue
		}

		var normal mgl64.Vec3
		normal[axis] = -float64(step[axis])
		return Hit{
			Distance: t,
			Normal:   normal,
			Cell:     world.Cell{X: cell[0], Y: cell[1], Z: cell[2]},
			Layer:    layer,
		}, true
	}
}

func finite(v mgl64.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
