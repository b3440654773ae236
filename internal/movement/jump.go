package movement

import (
	"github.com/Versifine/glide/internal/event"
	"github.com/go-gl/mathgl/mgl64"
)

// stepJump fires a pending jump on the first grounded tick. Airborne
// requests wait, and expire after JumpBuffer when one is configured.
func (c *Controller) stepJump(v mgl64.Vec3, dt float64) mgl64.Vec3 {
	if !c.latched.jump {
		return v
	}
	if c.derived.grounded {
		v[1] = c.cfg.JumpImpulse
		c.latched.jump = false
		c.latched.jumpAge = 0
		c.emit(event.EventJump, &event.JumpEvent{Impulse: c.cfg.JumpImpulse, Tick: c.tick})
		return v
	}

	c.latched.jumpAge += dt
	if c.cfg.JumpBuffer > 0 && c.latched.jumpAge >= c.cfg.JumpBuffer {
		c.latched.jump = false
		c.latched.jumpAge = 0
		c.log.Debug("Jump request expired", "tick", c.tick)
	}
	return v
}
