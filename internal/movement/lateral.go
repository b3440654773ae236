package movement

import (
	"math"

	"github.com/Versifine/glide/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// stepLateral replaces the lateral component with the steering push. A push
// into a wall is projected onto the wall plane, so any part of it that
// survives lands on the travel axis instead.
func (c *Controller) stepLateral(v mgl64.Vec3, origin mgl64.Vec3) mgl64.Vec3 {
	x := c.steer.X()
	if c.steer.Len() <= c.cfg.SteerDeadZone || x == 0 {
		v[0] = 0
		return v
	}

	push := mgl64.Vec3{x * c.cfg.LateralSpeed, 0, 0}
	dir := physics.LateralAxis.Mul(math.Copysign(1, x))
	if normal, hit := c.sensor.ProbeWall(origin, dir, c.cfg.WallProbeDistance); hit {
		push = physics.ProjectOnPlane(push, normal)
	}

	v[0] = push.X()
	v[2] += push.Z()
	return v
}
