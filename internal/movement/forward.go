package movement

import (
	"math"

	"github.com/Versifine/glide/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// stepForward owns the travel-axis component. It consumes a latched dash,
// applies either the dash acceleration or the smoothed cruise law, and then
// advances the dash timer. The flag reports whether the dash law ran.
func (c *Controller) stepForward(v mgl64.Vec3, dt float64) (mgl64.Vec3, bool) {
	if c.latched.dash {
		c.latched.dash = false
		switch {
		case c.machine.state == StateNormal:
			c.machine.startDash(c.cfg.DashDuration)
			c.transition(StateNormal, StateDashing)
		case c.cfg.DashRetrigger:
			c.machine.remaining = c.cfg.DashDuration
		}
	}

	if c.machine.state == StateDashing {
		v[2] = math.Min(v.Z()+c.cfg.DashAcceleration*dt, c.cfg.MaxSpeed)
		if c.machine.elapse(dt) {
			c.transition(StateDashing, StateNormal)
		}
		return v, true
	}

	target := c.cruiseSpeed()
	if c.cfg.ForwardBlendRate == 0 {
		v[2] = target
		return v, false
	}
	v[2] = physics.Lerp(v.Z(), target, c.cfg.ForwardBlendRate*dt)
	return v, false
}

func (c *Controller) cruiseSpeed() float64 {
	if c.slowing {
		return c.cfg.ForwardSpeed * c.cfg.SlowMultiplier
	}
	return c.cfg.ForwardSpeed
}
