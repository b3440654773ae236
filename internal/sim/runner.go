package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Versifine/glide/internal/movement"
	"github.com/Versifine/glide/internal/status"
	"github.com/go-gl/mathgl/mgl64"
)

// Sample is the observable state after one step.
type Sample struct {
	Tick        uint64
	Time        float64
	Position    mgl64.Vec3
	Velocity    mgl64.Vec3
	TravelSpeed float64
	State       movement.State
	Grounded    bool
	WallRunning bool
	WallSide    string
}

// Runner drives a Session with a fixed step.
type Runner struct {
	session *Session
	dt      float64

	mu       sync.Mutex
	tick     uint64
	last     Sample
	maxSpeed status.AtomicFloat
}

func NewRunner(s *Session) *Runner {
	return &Runner{
		session: s,
		dt:      s.Config.Simulation.TickSeconds(),
	}
}

func (r *Runner) Session() *Session { return r.session }

// Step delivers queued input, ticks the controller, then integrates the body.
func (r *Runner) Step() (Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.session
	s.Input.Drain()
	if err := s.Controller.Tick(r.dt); err != nil {
		return r.last, fmt.Errorf("controller tick %d: %w", r.tick+1, err)
	}
	if err := s.Body.Integrate(r.dt); err != nil {
		return r.last, fmt.Errorf("integrate tick %d: %w", r.tick+1, err)
	}
	r.tick++

	snap := s.Controller.Snapshot()
	body := s.Body.Snapshot()
	sample := Sample{
		Tick:        r.tick,
		Time:        float64(r.tick) * r.dt,
		Position:    body.Position,
		Velocity:    body.Velocity,
		TravelSpeed: snap.TravelSpeed,
		State:       snap.State,
		Grounded:    snap.Grounded,
		WallRunning: snap.WallRunning,
	}
	if snap.WallRunning {
		sample.WallSide = snap.Wall.Side.String()
	}
	r.last = sample
	r.maxSpeed.Max(snap.TravelSpeed)
	return sample, nil
}

func (r *Runner) Last() Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// MaxTravelSpeed is the highest travel speed seen by any step.
func (r *Runner) MaxTravelSpeed() float64 {
	return r.maxSpeed.Get()
}

// RunRealtime steps once per interval until ctx is done. observe, when not
// nil, is called after every step on the stepping goroutine.
func (r *Runner) RunRealtime(ctx context.Context, interval time.Duration, observe func(Sample)) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sample, err := r.Step()
			if err != nil {
				return err
			}
			if observe != nil {
				observe(sample)
			}
		}
	}
}
