package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Versifine/glide/internal/input"
	"github.com/Versifine/glide/internal/movement"
	"github.com/Versifine/glide/internal/sim"
	"github.com/go-gl/mathgl/mgl64"
)

type mockStepper struct {
	steps  int
	sample sim.Sample
}

func (m *mockStepper) Step() (sim.Sample, error) {
	m.steps++
	m.sample.Tick = uint64(m.steps)
	return m.sample, nil
}

type mockSink struct {
	events []input.Event
}

func (m *mockSink) Post(evt input.Event) bool {
	m.events = append(m.events, evt)
	return true
}

func (m *mockSink) kinds() []input.Kind {
	out := make([]input.Kind, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Kind)
	}
	return out
}

type mockBody struct {
	teleports []mgl64.Vec3
}

func (m *mockBody) Teleport(pos mgl64.Vec3) {
	m.teleports = append(m.teleports, pos)
}

func newTestConsole() (*Console, *mockStepper, *mockSink, *mockBody, *bytes.Buffer) {
	stepper := &mockStepper{}
	sink := &mockSink{}
	body := &mockBody{}
	c := NewConsole(stepper, sink, body)
	var out bytes.Buffer
	c.out = &out
	return c, stepper, sink, body, &out
}

func typeCommand(c *Console, cmd string) {
	c.handleKey(nil, ':')
	for i := 0; i < len(cmd); i++ {
		c.handleKey(nil, cmd[i])
	}
	c.handleKey(nil, '\r')
}

func TestKeysPostInput(t *testing.T) {
	c, _, sink, _, _ := newTestConsole()

	for _, b := range []byte{'a', ' ', 'e', 's', 's'} {
		c.handleKey(nil, b)
	}

	want := []input.Kind{
		input.KindSteerChanged,
		input.KindJumpPressed,
		input.KindDashPressed,
		input.KindSlowStarted,
		input.KindSlowCanceled,
	}
	got := sink.kinds()
	if len(got) != len(want) {
		t.Fatalf("posted %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
	if sink.events[0].Axis.X() != -1 {
		t.Fatalf("steer axis = %v, want -1", sink.events[0].Axis)
	}
}

func TestSteerPulseExpires(t *testing.T) {
	c, stepper, sink, _, _ := newTestConsole()

	c.handleKey(nil, 'd')
	c.step(time.Now())
	if len(sink.events) != 1 {
		t.Fatalf("pulse expired too early: %v", sink.kinds())
	}

	c.step(time.Now().Add(time.Second))
	if last := sink.events[len(sink.events)-1]; last.Kind != input.KindSteerCanceled {
		t.Fatalf("last event = %v, want steer_canceled", last.Kind)
	}
	if stepper.steps != 2 {
		t.Fatalf("steps = %d, want 2", stepper.steps)
	}

	c.step(time.Now().Add(2 * time.Second))
	if len(sink.events) != 2 {
		t.Fatalf("cancel posted twice: %v", sink.kinds())
	}
}

func TestClearInput(t *testing.T) {
	c, _, sink, _, _ := newTestConsole()
	c.handleKey(nil, 's')
	c.handleKey(nil, 'x')

	got := sink.kinds()
	want := []input.Kind{input.KindSlowStarted, input.KindSteerCanceled, input.KindSlowCanceled}
	if len(got) != len(want) {
		t.Fatalf("posted %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCommands(t *testing.T) {
	c, stepper, sink, body, out := newTestConsole()
	stepper.sample = sim.Sample{
		Position:    mgl64.Vec3{1, 2, 3},
		State:       movement.StateDashing,
		WallRunning: true,
		WallSide:    "right",
	}
	c.step(time.Now())

	typeCommand(c, "tp 4 5.5 6")
	if len(body.teleports) != 1 || body.teleports[0] != (mgl64.Vec3{4, 5.5, 6}) {
		t.Fatalf("teleports = %v", body.teleports)
	}

	typeCommand(c, "steer 0.5")
	if len(sink.events) != 1 || sink.events[0].Axis.X() != 0.5 {
		t.Fatalf("steer command posted %+v", sink.events)
	}
	c.step(time.Now().Add(time.Hour))
	if len(sink.events) != 1 {
		t.Fatal("held steer must not expire")
	}

	typeCommand(c, "state")
	typeCommand(c, "tp 1 2")
	typeCommand(c, "steer 3")
	typeCommand(c, "fly")

	text := out.String()
	for _, want := range []string{
		"teleported to (4.000, 5.500, 6.000)",
		"state=dashing",
		"wall=right",
		"usage: :tp <x> <y> <z>",
		"steer must be in [-1, 1]",
		"unknown command: fly",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestCommandEditing(t *testing.T) {
	c, _, _, body, out := newTestConsole()

	c.handleKey(nil, ':')
	for _, b := range []byte("tpx") {
		c.handleKey(nil, b)
	}
	c.handleKey(nil, 127)
	for _, b := range []byte(" 1 1 1") {
		c.handleKey(nil, b)
	}
	c.handleKey(nil, '\n')
	if len(body.teleports) != 1 {
		t.Fatalf("edited command not executed: %v", body.teleports)
	}

	c.handleKey(nil, ':')
	c.handleKey(nil, 't')
	c.handleKey(nil, 27)
	if c.isCommandMode() {
		t.Fatal("ESC should leave command mode")
	}
	if !strings.Contains(out.String(), "command cancelled") {
		t.Error("missing cancel message")
	}
}

func TestStatusLine(t *testing.T) {
	c, stepper, _, _, out := newTestConsole()
	stepper.sample = sim.Sample{TravelSpeed: 12.5, State: movement.StateNormal, Grounded: true}
	c.step(time.Now())

	if !strings.Contains(out.String(), "normal SPD:12.50") || !strings.Contains(out.String(), "ground:true wall:-") {
		t.Fatalf("status line = %q", out.String())
	}
}
