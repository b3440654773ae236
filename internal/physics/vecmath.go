package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	WorldUp     = mgl64.Vec3{0, 1, 0}
	WorldDown   = mgl64.Vec3{0, -1, 0}
	TravelAxis  = mgl64.Vec3{0, 0, 1}
	LateralAxis = mgl64.Vec3{1, 0, 0}
)

// SafeNormalize returns the unit vector of v, or false when v is too short
// to carry a direction.
func SafeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	if v.LenSqr() <= DirectionEpsilon*DirectionEpsilon {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / v.Len()), true
}

// ProjectOnPlane removes the component of v along normal. A degenerate
// normal leaves v unchanged.
func ProjectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	n, ok := SafeNormalize(normal)
	if !ok {
		return v
	}
	return v.Sub(n.Mul(v.Dot(n)))
}

func ClampMagnitude(v mgl64.Vec3, limit float64) mgl64.Vec3 {
	if limit <= 0 {
		return mgl64.Vec3{}
	}
	length := v.Len()
	if length <= limit {
		return v
	}
	return v.Mul(limit / length)
}

// ClampKeepingTravel limits |v| to limit without shortening the travel (Z)
// component unless it alone exceeds limit. The X and Y components share
// whatever speed budget is left.
func ClampKeepingTravel(v mgl64.Vec3, limit float64) mgl64.Vec3 {
	if limit <= 0 {
		return mgl64.Vec3{}
	}
	if v.Len() <= limit {
		return v
	}
	z := mgl64.Clamp(v.Z(), -limit, limit)
	rest := math.Sqrt(math.Max(limit*limit-z*z, 0))
	side := mgl64.Vec2{v.X(), v.Y()}
	if l := side.Len(); l > rest {
		side = side.Mul(rest / l)
	}
	return mgl64.Vec3{side.X(), side.Y(), z}
}

func Clamp01(t float64) float64 {
	return mgl64.Clamp(t, 0, 1)
}

// Lerp interpolates from a to b with t clamped to [0, 1], so repeated calls
// approach b without overshooting it.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// LookRotation builds the rotation whose +Z axis points along forward and
// whose +Y axis is as close to up as possible.
func LookRotation(forward, up mgl64.Vec3) (mgl64.Quat, bool) {
	f, ok := SafeNormalize(forward)
	if !ok {
		return mgl64.QuatIdent(), false
	}
	r, ok := SafeNormalize(up.Cross(f))
	if !ok {
		return mgl64.QuatIdent(), false
	}
	u := f.Cross(r)

	m := mgl64.Mat4{
		r[0], r[1], r[2], 0,
		u[0], u[1], u[2], 0,
		f[0], f[1], f[2], 0,
		0, 0, 0, 1,
	}
	return mgl64.Mat4ToQuat(m).Normalize(), true
}

// Slerp interpolates along the shortest arc with t clamped to [0, 1].
func Slerp(from, to mgl64.Quat, t float64) mgl64.Quat {
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl64.QuatSlerp(from, to, Clamp01(t))
}
