package movement

import (
	"github.com/Versifine/glide/internal/event"
	"github.com/Versifine/glide/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

func (c *Controller) probeWalls(origin mgl64.Vec3) WallContact {
	if n, ok := c.sensor.ProbeWall(origin, physics.LateralAxis.Mul(-1), c.cfg.WallProbeDistance); ok {
		return WallContact{Present: true, Normal: n, Side: SideLeft}
	}
	if n, ok := c.sensor.ProbeWall(origin, physics.LateralAxis, c.cfg.WallProbeDistance); ok {
		return WallContact{Present: true, Normal: n, Side: SideRight}
	}
	return WallContact{}
}

// stepWall decides wall-running for this tick, hands gravity between the
// body and the controller on entry and exit, and while running keeps the
// skater on the wall plane with a weaker pseudo-gravity.
func (c *Controller) stepWall(v mgl64.Vec3, origin mgl64.Vec3, dt float64) mgl64.Vec3 {
	contact := c.probeWalls(origin)
	want := contact.Present && !c.derived.grounded &&
		(c.cfg.WallRunMinSpeed == 0 || v.Len() >= c.cfg.WallRunMinSpeed)

	switch {
	case want && !c.derived.wallRunning:
		c.body.SetGravityEnabled(false)
		c.log.Debug("Wall-run started", "side", contact.Side.String(), "tick", c.tick)
		c.emit(event.EventWallRunStart, wallRunEvent(contact, c.tick))
	case !want && c.derived.wallRunning:
		c.body.SetGravityEnabled(true)
		c.log.Debug("Wall-run ended", "side", c.derived.wall.Side.String(), "tick", c.tick)
		c.emit(event.EventWallRunEnd, wallRunEvent(c.derived.wall, c.tick))
	}
	c.derived.wallRunning = want
	c.derived.wall = contact

	if !want {
		c.orient(mgl64.QuatIdent(), dt)
		return v
	}

	n, ok := physics.SafeNormalize(contact.Normal)
	if !ok {
		return v
	}
	v = physics.ProjectOnPlane(v, n)
	if down, ok := wallDown(n); ok {
		v = v.Add(down.Mul(c.cfg.WallRunGravity * dt))
	}

	forward := n.Cross(physics.WorldUp)
	if contact.Side == SideRight {
		forward = forward.Mul(-1)
	}
	if target, ok := physics.LookRotation(forward, n); ok {
		c.orient(target, dt)
	}
	return v
}

// wallDown is the direction along the wall plane, perpendicular to travel,
// that points toward world down.
func wallDown(n mgl64.Vec3) (mgl64.Vec3, bool) {
	along, ok := physics.SafeNormalize(n.Cross(physics.TravelAxis.Cross(n)))
	if !ok {
		return mgl64.Vec3{}, false
	}
	down, ok := physics.SafeNormalize(n.Cross(along))
	if !ok {
		return mgl64.Vec3{}, false
	}
	if down.Dot(physics.WorldDown) < 0 {
		down = down.Mul(-1)
	}
	return down, true
}

func (c *Controller) orient(target mgl64.Quat, dt float64) {
	current := c.body.Rotation()
	if current.ApproxEqualThreshold(target, 1e-9) {
		return
	}
	c.body.SetRotation(physics.Slerp(current, target, c.cfg.OrientationBlendRate*dt))
}

func wallRunEvent(w WallContact, tick uint64) *event.WallRunEvent {
	return &event.WallRunEvent{
		Side:   w.Side.String(),
		Normal: [3]float64{w.Normal.X(), w.Normal.Y(), w.Normal.Z()},
		Tick:   tick,
	}
}
