package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	groundContactProbe   = 0.001
	minimumResidualSpeed = 1e-4
)

// State is the host-side kinematic state of a body.
type State struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	OnGround bool
}

// Step integrates one host tick of dt seconds: gravity when enabled, then a
// per-axis swept move. Velocity on a blocked axis is zeroed.
func Step(state *State, dt float64, gravity bool, blockStore BlockStore) {
	if state == nil || dt <= 0 || math.IsNaN(dt) {
		return
	}

	if gravity {
		state.Velocity[1] -= GravityAcceleration * dt
	}

	pos, blocked := ResolveMovement(state.Position, state.Velocity.Mul(dt), blockStore)
	for axis, hit := range blocked {
		if hit {
			state.Velocity[axis] = 0
		}
	}
	state.Position = pos
	state.OnGround = isStandingOnSolidBlock(pos, blockStore)
	zeroResidualVelocity(&state.Velocity)
}

func zeroResidualVelocity(v *mgl64.Vec3) {
	if v == nil {
		return
	}
	for i := range v {
		if math.Abs(v[i]) < minimumResidualSpeed {
			v[i] = 0
		}
	}
}

func isStandingOnSolidBlock(pos mgl64.Vec3, blockStore BlockStore) bool {
	if blockStore == nil {
		return false
	}
	probe := SkaterAABB(pos)
	probe.Min[1] -= groundContactProbe
	probe.Max[1] -= groundContactProbe
	return CollidesWithBlock(probe, blockStore)
}
