package event

const (
	EventStateChanged = "movement.state"
	EventJump         = "movement.jump"
	EventWallRunStart = "movement.wallrun.start"
	EventWallRunEnd   = "movement.wallrun.end"
)

// StateChangedEvent reports a locomotion mode transition.
type StateChangedEvent struct {
	From string
	To   string
	Tick uint64
}

type JumpEvent struct {
	Impulse float64
	Tick    uint64
}

// WallRunEvent is published on wall-run entry and exit. Side is "left" or
// "right"; Normal is the wall normal seen on that tick.
type WallRunEvent struct {
	Side   string
	Normal [3]float64
	Tick   uint64
}
