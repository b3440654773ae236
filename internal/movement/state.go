package movement

import "fmt"

type State int32

const (
	StateNormal State = iota
	StateDashing
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateDashing:
		return "dashing"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// dashTimerEpsilon absorbs the rounding left after subtracting dt from the
// dash timer N times.
const dashTimerEpsilon = 1e-9

// machine holds the locomotion mode and the dash countdown. The countdown is
// decremented by the forward stage each tick; it is never driven by wall
// clock or external signals.
type machine struct {
	state     State
	remaining float64
}

func (m *machine) startDash(duration float64) {
	m.state = StateDashing
	m.remaining = duration
}

// elapse advances the dash timer by dt and reports whether the machine
// reverted to Normal on this call.
func (m *machine) elapse(dt float64) bool {
	if m.state != StateDashing {
		return false
	}
	m.remaining -= dt
	if m.remaining > dashTimerEpsilon {
		return false
	}
	m.remaining = 0
	m.state = StateNormal
	return true
}

// cancel drops an active dash without it counting as an elapsed timer.
func (m *machine) cancel() bool {
	if m.state != StateDashing {
		return false
	}
	m.state = StateNormal
	m.remaining = 0
	return true
}
