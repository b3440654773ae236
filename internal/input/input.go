package input

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type Kind int

const (
	KindSteerChanged Kind = iota
	KindSteerCanceled
	KindSlowStarted
	KindSlowCanceled
	KindJumpPressed
	KindDashPressed
	KindDashReleased
)

var kindNames = [...]string{
	KindSteerChanged:  "steer_changed",
	KindSteerCanceled: "steer_canceled",
	KindSlowStarted:   "slow_started",
	KindSlowCanceled:  "slow_canceled",
	KindJumpPressed:   "jump_pressed",
	KindDashPressed:   "dash_pressed",
	KindDashReleased:  "dash_released",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown input event %q", s)
}

// Event is one discrete report from the input layer. Axis is only read for
// KindSteerChanged.
type Event struct {
	Kind Kind
	Axis mgl64.Vec2
}

func Steer(x float64) Event {
	return Event{Kind: KindSteerChanged, Axis: mgl64.Vec2{x, 0}}
}

// Handler is the fixed set of entry points the input layer drives.
type Handler interface {
	OnSteerChanged(axis mgl64.Vec2)
	OnSteerCanceled()
	OnSlowStarted()
	OnSlowCanceled()
	OnJumpPressed()
	OnDashPressed()
	OnDashReleased()
}

// Deliver invokes the entry point of h that matches evt.
func Deliver(h Handler, evt Event) {
	if h == nil {
		return
	}
	switch evt.Kind {
	case KindSteerChanged:
		h.OnSteerChanged(evt.Axis)
	case KindSteerCanceled:
		h.OnSteerCanceled()
	case KindSlowStarted:
		h.OnSlowStarted()
	case KindSlowCanceled:
		h.OnSlowCanceled()
	case KindJumpPressed:
		h.OnJumpPressed()
	case KindDashPressed:
		h.OnDashPressed()
	case KindDashReleased:
		h.OnDashReleased()
	}
}
