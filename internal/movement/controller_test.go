package movement

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/Versifine/glide/internal/event"
	"github.com/Versifine/glide/internal/input"
	"github.com/go-gl/mathgl/mgl64"
)

func TestTickRejectsBadStep(t *testing.T) {
	c := newTestController(t, DefaultConfig(), newMockBody(zero), &mockSensor{})
	for _, dt := range []float64{0, -0.02, math.NaN(), math.Inf(1)} {
		if err := c.Tick(dt); err == nil {
			t.Errorf("Tick(%v) should fail", dt)
		}
	}

	var nilController *Controller
	if err := nilController.Tick(testDt); err == nil {
		t.Error("Tick on nil controller should fail")
	}
}

func TestTickWritesVelocityOnce(t *testing.T) {
	body := newMockBody(zero)
	c := newTestController(t, DefaultConfig(), body, &mockSensor{ground: true})

	tickN(t, c, 5)
	if body.writes != 5 {
		t.Fatalf("SetVelocity called %d times over 5 ticks", body.writes)
	}
}

func TestSpeedNeverExceedsMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSpeed = 12
	cfg.JumpImpulse = 20
	body := newMockBody(mgl64.Vec3{40, 30, 0})
	sensor := &mockSensor{ground: true}
	c := newTestController(t, cfg, body, sensor)

	c.OnSteerChanged(mgl64.Vec2{1, 0})
	c.OnJumpPressed()
	c.OnDashPressed()
	for i := 0; i < 50; i++ {
		tickN(t, c, 1)
		if l := body.vel.Len(); l > cfg.MaxSpeed+1e-9 {
			t.Fatalf("tick %d: |v| = %v exceeds %v", i+1, l, cfg.MaxSpeed)
		}
	}
}

func TestObserverReadouts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ForwardBlendRate = 0
	body := newMockBody(zero)
	c := newTestController(t, cfg, body, &mockSensor{ground: true})

	if c.CurrentState() != StateNormal {
		t.Fatalf("initial state = %v", c.CurrentState())
	}
	tickN(t, c, 1)
	if c.CurrentTravelSpeed() != cfg.ForwardSpeed {
		t.Fatalf("CurrentTravelSpeed() = %v, want %v", c.CurrentTravelSpeed(), cfg.ForwardSpeed)
	}

	c.OnDashPressed()
	tickN(t, c, 1)
	if c.CurrentState() != StateDashing {
		t.Fatalf("CurrentState() = %v, want dashing", c.CurrentState())
	}

	snap := c.Snapshot()
	if snap.Tick != 2 || snap.State != StateDashing || !snap.Grounded {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestConcurrentReadersDuringTicks(t *testing.T) {
	c := newTestController(t, DefaultConfig(), newMockBody(zero), &mockSensor{ground: true})

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = c.CurrentTravelSpeed()
					_ = c.CurrentState()
					c.OnSteerChanged(mgl64.Vec2{0.5, 0})
				}
			}
		}()
	}
	tickN(t, c, 200)
	close(stop)
	wg.Wait()
}

func TestDisableMidDash(t *testing.T) {
	pub := &recordingPublisher{}
	body := newMockBody(mgl64.Vec3{0, 0, 10})
	sensor := &mockSensor{left: wallHit{mgl64.Vec3{1, 0, 0}, true}}
	c := newTestController(t, DefaultConfig(), body, sensor, WithPublisher(pub))

	c.OnDashPressed()
	c.OnJumpPressed()
	c.OnSteerChanged(mgl64.Vec2{1, 0})
	c.OnSlowStarted()
	tickN(t, c, 5)
	if c.CurrentState() != StateDashing || !c.IsWallRunning() {
		t.Fatalf("setup: state=%v wallRunning=%v", c.CurrentState(), c.IsWallRunning())
	}

	c.Disable()
	c.Disable()

	if c.CurrentState() != StateNormal || c.DashRemaining() != 0 {
		t.Fatalf("after Disable state=%v remaining=%v", c.CurrentState(), c.DashRemaining())
	}
	if !body.gravity {
		t.Fatal("Disable must hand gravity back to the body")
	}
	snap := c.Snapshot()
	if snap.JumpPending || snap.Slowing || snap.Steer != (mgl64.Vec2{}) || snap.WallRunning {
		t.Fatalf("intent not cleared: %+v", snap)
	}
	if err := c.Tick(testDt); !errors.Is(err, ErrDisabled) {
		t.Fatalf("Tick() after Disable = %v, want ErrDisabled", err)
	}

	want := []string{event.EventStateChanged, event.EventWallRunStart, event.EventStateChanged, event.EventWallRunEnd}
	if got := pub.names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("published %v, want %v", got, want)
	}

	if err := c.Enable(nil); err != nil {
		t.Fatalf("Enable(nil) = %v", err)
	}
	tickN(t, c, 1)
}

func TestPressesWhileDisabledAreDropped(t *testing.T) {
	pub := &recordingPublisher{}
	body := newMockBody(mgl64.Vec3{0, 0, 10})
	c := newTestController(t, DefaultConfig(), body, &mockSensor{ground: true}, WithPublisher(pub))

	c.Disable()
	c.OnJumpPressed()
	c.OnDashPressed()
	if c.JumpPending() {
		t.Fatal("jump latched on a disabled controller")
	}

	if err := c.Enable(nil); err != nil {
		t.Fatalf("Enable(nil) = %v", err)
	}
	tickN(t, c, 3)
	if c.CurrentState() != StateNormal {
		t.Fatalf("state = %v, dash pressed while disabled must not fire", c.CurrentState())
	}
	if body.vel.Y() != 0 {
		t.Fatalf("v_y = %v, jump pressed while disabled must not fire", body.vel.Y())
	}
	if len(pub.names()) != 0 {
		t.Fatalf("published %v", pub.names())
	}
}

func TestEnableBindsDispatcher(t *testing.T) {
	d := input.NewDispatcher(8)
	c := newTestController(t, DefaultConfig(), newMockBody(zero), &mockSensor{})

	if err := c.Enable(d); err != nil {
		t.Fatalf("Enable() = %v", err)
	}
	d.Post(input.Event{Kind: input.KindJumpPressed})
	if n := d.Drain(); n != 1 {
		t.Fatalf("Drain() = %d, want 1", n)
	}
	if !c.JumpPending() {
		t.Fatal("jump from dispatcher not latched")
	}

	other := newTestController(t, DefaultConfig(), newMockBody(zero), &mockSensor{})
	if err := other.Enable(d); !errors.Is(err, input.ErrAlreadyBound) {
		t.Fatalf("second Enable() = %v, want ErrAlreadyBound", err)
	}

	c.Disable()
	d.Post(input.Event{Kind: input.KindJumpPressed})
	if n := d.Drain(); n != 0 {
		t.Fatalf("Drain() after Disable delivered %d events", n)
	}
	if c.JumpPending() {
		t.Fatal("disabled controller latched a jump")
	}

	if err := other.Enable(d); err != nil {
		t.Fatalf("Enable() after unbind = %v", err)
	}
}

func TestSideString(t *testing.T) {
	if SideLeft.String() != "left" || SideRight.String() != "right" {
		t.Fatalf("got %q %q", SideLeft, SideRight)
	}
}
