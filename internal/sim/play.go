package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/Versifine/glide/internal/event"
)

// Report summarises one script run.
type Report struct {
	Script         string
	Ticks          uint64
	Duration       float64
	MaxTravelSpeed float64
	Jumps          int
	Dashes         int
	WallRuns       int
	DroppedInputs  uint64
	Final          Sample
}

type counters struct {
	jumps, dashes, wallRuns int
}

// Play runs script as fast as possible.
func (r *Runner) Play(ctx context.Context, script *Script, observe func(Sample)) (Report, error) {
	return r.play(ctx, script, observe, nil)
}

// PlayRealtime runs script with one step per interval.
func (r *Runner) PlayRealtime(ctx context.Context, script *Script, interval time.Duration, observe func(Sample)) (Report, error) {
	if interval <= 0 {
		return Report{}, fmt.Errorf("interval must be positive, got %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	return r.play(ctx, script, observe, ticker.C)
}

func (r *Runner) play(ctx context.Context, script *Script, observe func(Sample), pace <-chan time.Time) (Report, error) {
	if script == nil {
		return Report{}, fmt.Errorf("script is nil")
	}

	var c counters
	bus := r.session.Bus
	unsubscribe := []func(){
		bus.Subscribe(event.EventJump, func(any) { c.jumps++ }),
		bus.Subscribe(event.EventStateChanged, func(raw any) {
			if evt, ok := raw.(*event.StateChangedEvent); ok && evt.To == "dashing" {
				c.dashes++
			}
		}),
		bus.Subscribe(event.EventWallRunStart, func(any) { c.wallRuns++ }),
	}
	defer func() {
		for _, u := range unsubscribe {
			u()
		}
	}()

	steps := uint64(script.Duration/r.dt + 0.5)
	next := 0
	var ticks uint64
	for ticks < steps {
		if err := ctx.Err(); err != nil {
			return r.report(script, ticks, c), err
		}
		if pace != nil {
			select {
			case <-ctx.Done():
				return r.report(script, ticks, c), ctx.Err()
			case <-pace:
			}
		}

		now := float64(ticks) * r.dt
		for next < len(script.Events) && script.Events[next].At <= now+r.dt/2 {
			r.session.Input.Post(script.Events[next].Input())
			next++
		}

		sample, err := r.Step()
		if err != nil {
			return r.report(script, ticks, c), err
		}
		ticks++
		if observe != nil {
			observe(sample)
		}
	}
	return r.report(script, ticks, c), nil
}

func (r *Runner) report(script *Script, ticks uint64, c counters) Report {
	return Report{
		Script:         script.Name,
		Ticks:          ticks,
		Duration:       float64(ticks) * r.dt,
		MaxTravelSpeed: r.MaxTravelSpeed(),
		Jumps:          c.jumps,
		Dashes:         c.dashes,
		WallRuns:       c.wallRuns,
		DroppedInputs:  r.session.Input.Dropped(),
		Final:          r.Last(),
	}
}
