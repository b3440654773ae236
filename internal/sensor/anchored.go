package sensor

import (
	"github.com/Versifine/glide/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultLift raises probes from the skater's feet to mid-shin, clear of the
// cell the feet rest on.
const DefaultLift = 0.5

// Anchored probes from a point Lift above the given origin. Ground probes are
// lengthened by Lift so distances stay measured from the feet.
type Anchored struct {
	Caster *Raycaster
	Lift   float64
}

func NewAnchored(caster *Raycaster, lift float64) *Anchored {
	return &Anchored{Caster: caster, Lift: lift}
}

func (a *Anchored) ProbeGround(origin mgl64.Vec3, distance float64) bool {
	return a.Caster.ProbeGround(a.raise(origin), distance+a.Lift)
}

func (a *Anchored) ProbeWall(origin, direction mgl64.Vec3, distance float64) (mgl64.Vec3, bool) {
	return a.Caster.ProbeWall(a.raise(origin), direction, distance)
}

func (a *Anchored) raise(origin mgl64.Vec3) mgl64.Vec3 {
	return origin.Add(physics.WorldUp.Mul(a.Lift))
}
