package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/glide/internal/input"
	"github.com/Versifine/glide/internal/sim"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/term"
)

const (
	defaultTickInterval = 20 * time.Millisecond
	defaultSteerPulse   = 180 * time.Millisecond
)

type Stepper interface {
	Step() (sim.Sample, error)
}

type InputSink interface {
	Post(evt input.Event) bool
}

type Teleporter interface {
	Teleport(pos mgl64.Vec3)
}

// Console drives a session from raw keyboard input and prints a one-line
// status after every step.
type Console struct {
	stepper      Stepper
	sink         InputSink
	body         Teleporter
	tickInterval time.Duration
	steerPulse   time.Duration
	out          io.Writer

	mu          sync.Mutex
	last        sim.Sample
	steer       float64
	steerUntil  time.Time
	slowing     bool
	commandMode bool
	commandBuf  []rune
	statusWidth int
}

func NewConsole(stepper Stepper, sink InputSink, body Teleporter) *Console {
	return &Console{
		stepper:      stepper,
		sink:         sink,
		body:         body,
		tickInterval: defaultTickInterval,
		steerPulse:   defaultSteerPulse,
		out:          os.Stdout,
	}
}

// SetTickInterval changes the stepping period. Non-positive values are ignored.
func (c *Console) SetTickInterval(d time.Duration) {
	if d > 0 {
		c.tickInterval = d
	}
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.stepper == nil {
		return fmt.Errorf("console stepper is nil")
	}
	if c.sink == nil {
		return fmt.Errorf("console input sink is nil")
	}
	if c.body == nil {
		return fmt.Errorf("console body is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprint(c.out, "[debug] console started (A/D steer, S slow, Space jump, E dash, X clear, : command, Ctrl-C quit)\r\n")
	c.renderStatusLine()

	go c.tickLoop(ctx)

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if b == 3 { // Ctrl-C
			return nil
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.step(now)
		}
	}
}

func (c *Console) step(now time.Time) {
	c.expireSteerPulse(now)
	sample, err := c.stepper.Step()
	if err != nil {
		slog.Debug("debug step failed", "error", err)
		return
	}
	c.mu.Lock()
	c.last = sample
	c.mu.Unlock()
	c.renderStatusLine()
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'a', 'A':
		c.pulseSteer(-1)
	case 'd', 'D':
		c.pulseSteer(1)
	case 's', 'S':
		c.toggleSlow()
	case ' ':
		c.sink.Post(input.Event{Kind: input.KindJumpPressed})
	case 'e', 'E':
		c.sink.Post(input.Event{Kind: input.KindDashPressed})
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		if reader == nil {
			return
		}
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.pulseSteer(-1)
		case 'C': // right
			c.pulseSteer(1)
		case 'A': // up
			c.sink.Post(input.Event{Kind: input.KindJumpPressed})
		}
	}
	c.renderStatusLine()
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		s := c.lastSample()
		fmt.Fprintf(c.out, "[debug] tick=%d pos=(%.3f,%.3f,%.3f) vel=(%.3f,%.3f,%.3f) state=%s ground=%t wall=%s\r\n",
			s.Tick,
			s.Position.X(), s.Position.Y(), s.Position.Z(),
			s.Velocity.X(), s.Velocity.Y(), s.Velocity.Z(),
			s.State, s.Grounded, wallLabel(s),
		)
	case "tp":
		if len(parts) != 4 {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 64)
		y, err2 := strconv.ParseFloat(parts[2], 64)
		z, err3 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprint(c.out, "[debug] invalid tp args\r\n")
			return
		}
		c.body.Teleport(mgl64.Vec3{x, y, z})
		fmt.Fprintf(c.out, "[debug] teleported to (%.3f, %.3f, %.3f)\r\n", x, y, z)
	case "steer":
		if len(parts) != 2 {
			fmt.Fprint(c.out, "[debug] usage: :steer <x>\r\n")
			return
		}
		x, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || x < -1 || x > 1 {
			fmt.Fprint(c.out, "[debug] steer must be in [-1, 1]\r\n")
			return
		}
		c.holdSteer(x)
		fmt.Fprintf(c.out, "[debug] steer held at %.2f\r\n", x)
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  A/D, Arrow Left/Right: steer pulse (~180ms)\r\n")
	fmt.Fprint(c.out, "  S: toggle slow\r\n")
	fmt.Fprint(c.out, "  Space, Arrow Up: jump\r\n")
	fmt.Fprint(c.out, "  E: dash\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :steer <x>\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	s := c.last
	steer := c.steer
	slowing := c.slowing
	width := c.statusWidth
	c.mu.Unlock()

	line := fmt.Sprintf(
		"[STEER:%+.1f SLOW:%s | %s SPD:%.2f | X:%.2f Y:%.2f Z:%.2f ground:%t wall:%s]",
		steer,
		boolLabel(slowing),
		s.State,
		s.TravelSpeed,
		s.Position.X(),
		s.Position.Y(),
		s.Position.Z(),
		s.Grounded,
		wallLabel(s),
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) lastSample() sim.Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func wallLabel(s sim.Sample) string {
	if !s.WallRunning {
		return "-"
	}
	return s.WallSide
}

func (c *Console) pulseSteer(x float64) {
	c.mu.Lock()
	c.steer = x
	c.steerUntil = time.Now().Add(c.steerPulse)
	c.mu.Unlock()
	c.sink.Post(input.Steer(x))
}

func (c *Console) holdSteer(x float64) {
	c.mu.Lock()
	c.steer = x
	c.steerUntil = time.Time{}
	c.mu.Unlock()
	c.sink.Post(input.Steer(x))
}

func (c *Console) expireSteerPulse(now time.Time) {
	c.mu.Lock()
	expired := !c.steerUntil.IsZero() && !now.Before(c.steerUntil)
	if expired {
		c.steer = 0
		c.steerUntil = time.Time{}
	}
	c.mu.Unlock()
	if expired {
		c.sink.Post(input.Event{Kind: input.KindSteerCanceled})
	}
}

func (c *Console) toggleSlow() {
	c.mu.Lock()
	c.slowing = !c.slowing
	enabled := c.slowing
	c.mu.Unlock()

	kind := input.KindSlowCanceled
	if enabled {
		kind = input.KindSlowStarted
	}
	c.sink.Post(input.Event{Kind: kind})
	slog.Debug("debug slow toggled", "enabled", enabled)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	slowing := c.slowing
	c.steer = 0
	c.steerUntil = time.Time{}
	c.slowing = false
	c.mu.Unlock()

	c.sink.Post(input.Event{Kind: input.KindSteerCanceled})
	if slowing {
		c.sink.Post(input.Event{Kind: input.KindSlowCanceled})
	}
}
