package movement

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/Versifine/glide/internal/event"
	"github.com/Versifine/glide/internal/input"
	"github.com/Versifine/glide/internal/physics"
	"github.com/Versifine/glide/internal/status"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrDisabled = errors.New("movement controller is disabled")

// Body is the physics body the controller drives. Velocity is read once at
// the start of a tick and written once at the end.
type Body interface {
	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	SetGravityEnabled(enabled bool)
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
}

// Sensor answers ray probes against the scene.
type Sensor interface {
	ProbeGround(origin mgl64.Vec3, distance float64) bool
	ProbeWall(origin, direction mgl64.Vec3, distance float64) (mgl64.Vec3, bool)
}

type Publisher interface {
	Publish(eventName string, evt any)
}

type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// WallContact is the per-tick wall probe result.
type WallContact struct {
	Present bool
	Normal  mgl64.Vec3
	Side    Side
}

// Snapshot is a consistent copy of controller state for observers.
type Snapshot struct {
	Tick          uint64
	State         State
	DashRemaining float64
	TravelSpeed   float64
	Steer         mgl64.Vec2
	Slowing       bool
	JumpPending   bool
	Grounded      bool
	WallRunning   bool
	Wall          WallContact
}

// latched intents are set by input and consumed exactly once by a stage.
type latched struct {
	jump    bool
	jumpAge float64
	dash    bool
}

// derived flags are recomputed from the sensor every tick.
type derived struct {
	grounded    bool
	wallRunning bool
	wall        WallContact
}

type pendingEvent struct {
	name    string
	payload any
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithPublisher(p Publisher) Option {
	return func(c *Controller) {
		c.publisher = p
	}
}

// Controller converts player intent into body velocity once per fixed tick.
type Controller struct {
	mu        sync.Mutex
	cfg       Config
	body      Body
	sensor    Sensor
	publisher Publisher
	log       *slog.Logger

	machine machine
	steer   mgl64.Vec2
	slowing bool
	latched latched
	derived derived

	tick     uint64
	disabled bool
	binding  *input.Binding
	outbox   []pendingEvent

	travelSpeed status.AtomicFloat
	stateView   atomic.Int32
}

func New(cfg Config, body Body, sensor Sensor, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errors.New("movement body is nil")
	}
	if sensor == nil {
		return nil, errors.New("movement sensor is nil")
	}

	c := &Controller{
		cfg:    cfg,
		body:   body,
		sensor: sensor,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "movement")
	c.travelSpeed.Set(body.Velocity().Z())
	return c, nil
}

func (c *Controller) Config() Config {
	return c.cfg
}

// Tick runs the full stage pipeline for dt seconds of simulated time.
func (c *Controller) Tick(dt float64) error {
	if c == nil {
		return fmt.Errorf("controller is nil")
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("tick dt must be positive and finite, got %v", dt)
	}

	c.mu.Lock()
	if c.disabled {
		c.mu.Unlock()
		return ErrDisabled
	}
	c.tick++

	origin := c.body.Position()
	v := c.body.Velocity()
	c.derived.grounded = c.sensor.ProbeGround(origin, c.cfg.GroundProbeDistance)

	v, dashing := c.stepForward(v, dt)
	v = c.stepLateral(v, origin)
	v = c.stepJump(v, dt)
	v = c.stepWall(v, origin, dt)
	if dashing {
		// A dash never gives up travel speed to steering or a jump.
		v = physics.ClampKeepingTravel(v, c.cfg.MaxSpeed)
	} else {
		v = physics.ClampMagnitude(v, c.cfg.MaxSpeed)
	}
	c.body.SetVelocity(v)

	c.travelSpeed.Set(v.Z())
	c.stateView.Store(int32(c.machine.state))
	outbox := c.outbox
	c.outbox = nil
	c.mu.Unlock()

	c.flush(outbox)
	return nil
}

// CurrentTravelSpeed is the travel-axis velocity written by the last tick.
func (c *Controller) CurrentTravelSpeed() float64 {
	return c.travelSpeed.Get()
}

func (c *Controller) CurrentState() State {
	return State(c.stateView.Load())
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Tick:          c.tick,
		State:         c.machine.state,
		DashRemaining: c.machine.remaining,
		TravelSpeed:   c.travelSpeed.Get(),
		Steer:         c.steer,
		Slowing:       c.slowing,
		JumpPending:   c.latched.jump,
		Grounded:      c.derived.grounded,
		WallRunning:   c.derived.wallRunning,
		Wall:          c.derived.wall,
	}
}

func (c *Controller) IsWallRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.derived.wallRunning
}

func (c *Controller) DashRemaining() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.remaining
}

func (c *Controller) JumpPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latched.jump
}

// Enable binds the controller to src and allows ticking again after a
// Disable. A nil src only re-enables ticking.
func (c *Controller) Enable(src *input.Dispatcher) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		c.latched = latched{}
	}
	if src != nil && c.binding == nil {
		b, err := src.Bind(c)
		if err != nil {
			return fmt.Errorf("bind input: %w", err)
		}
		c.binding = b
	}
	c.disabled = false
	return nil
}

// Disable unbinds input, cancels any dash, drops pending intent and hands
// gravity back to the body. Ticks fail with ErrDisabled until Enable.
func (c *Controller) Disable() {
	c.mu.Lock()
	if c.disabled {
		c.mu.Unlock()
		return
	}
	c.disabled = true
	c.binding.Unbind()
	c.binding = nil

	if c.machine.cancel() {
		c.transition(StateDashing, StateNormal)
	}
	if c.derived.wallRunning {
		c.body.SetGravityEnabled(true)
		c.derived.wallRunning = false
		c.emit(event.EventWallRunEnd, wallRunEvent(c.derived.wall, c.tick))
	}
	c.latched = latched{}
	c.steer = mgl64.Vec2{}
	c.slowing = false
	c.stateView.Store(int32(c.machine.state))
	c.log.Debug("Controller disabled", "tick", c.tick)
	outbox := c.outbox
	c.outbox = nil
	c.mu.Unlock()

	c.flush(outbox)
}

func (c *Controller) OnSteerChanged(axis mgl64.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steer = axis
}

func (c *Controller) OnSteerCanceled() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steer = mgl64.Vec2{}
}

func (c *Controller) OnSlowStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slowing = true
}

func (c *Controller) OnSlowCanceled() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slowing = false
}

func (c *Controller) OnJumpPressed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return
	}
	c.latched.jump = true
	c.latched.jumpAge = 0
}

// OnDashPressed latches a dash request. Dashes are edge-triggered: only the
// press matters. Presses on a disabled controller are dropped.
func (c *Controller) OnDashPressed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return
	}
	c.latched.dash = true
}

// OnDashReleased is accepted for input layers that report releases; it has
// no effect on an edge-triggered dash.
func (c *Controller) OnDashReleased() {}

func (c *Controller) transition(from, to State) {
	c.log.Debug("Locomotion state changed", "from", from.String(), "to", to.String(), "tick", c.tick)
	c.emit(event.EventStateChanged, &event.StateChangedEvent{From: from.String(), To: to.String(), Tick: c.tick})
}

func (c *Controller) emit(name string, payload any) {
	if c.publisher == nil {
		return
	}
	c.outbox = append(c.outbox, pendingEvent{name: name, payload: payload})
}

func (c *Controller) flush(events []pendingEvent) {
	if c.publisher == nil {
		return
	}
	for _, e := range events {
		c.publisher.Publish(e.name, e.payload)
	}
}
