package physics

const (
	GravityAcceleration = 9.81

	CollisionAxisTolerance = 1e-9
	DirectionEpsilon       = 1e-6

	SkaterWidth     = 0.6
	SkaterDepth     = 0.9
	SkaterHeight    = 1.7
	SkaterHalfWidth = SkaterWidth / 2.0
	SkaterHalfDepth = SkaterDepth / 2.0
)
