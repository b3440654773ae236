package movement

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("invalid movement configuration")

// Config holds the tuning of one controller. Speeds are in units per second,
// accelerations in units per second squared, durations in seconds and blend
// rates in 1/second.
type Config struct {
	ForwardSpeed         float64 `yaml:"forward_speed" toml:"forward_speed"`
	LateralSpeed         float64 `yaml:"lateral_speed" toml:"lateral_speed"`
	SlowMultiplier       float64 `yaml:"slow_multiplier" toml:"slow_multiplier"`
	JumpImpulse          float64 `yaml:"jump_impulse" toml:"jump_impulse"`
	GroundProbeDistance  float64 `yaml:"ground_probe_distance" toml:"ground_probe_distance"`
	WallProbeDistance    float64 `yaml:"wall_probe_distance" toml:"wall_probe_distance"`
	DashAcceleration     float64 `yaml:"dash_acceleration" toml:"dash_acceleration"`
	DashDuration         float64 `yaml:"dash_duration" toml:"dash_duration"`
	ForwardBlendRate     float64 `yaml:"forward_blend_rate" toml:"forward_blend_rate"`
	MaxSpeed             float64 `yaml:"max_speed" toml:"max_speed"`
	WallRunGravity       float64 `yaml:"wall_run_gravity" toml:"wall_run_gravity"`
	OrientationBlendRate float64 `yaml:"orientation_blend_rate" toml:"orientation_blend_rate"`

	// SteerDeadZone suppresses steering whose magnitude is at or below it.
	SteerDeadZone float64 `yaml:"steer_dead_zone" toml:"steer_dead_zone"`
	// WallRunMinSpeed is the speed needed to start or keep a wall-run. Zero
	// disables the check.
	WallRunMinSpeed float64 `yaml:"wall_run_min_speed" toml:"wall_run_min_speed"`
	// JumpBuffer is how long an airborne jump request stays pending. Zero
	// keeps it until the next grounded tick.
	JumpBuffer float64 `yaml:"jump_buffer" toml:"jump_buffer"`
	// DashRetrigger restarts the dash timer on a press during an active dash.
	DashRetrigger bool `yaml:"dash_retrigger" toml:"dash_retrigger"`
}

func DefaultConfig() Config {
	return Config{
		ForwardSpeed:         10,
		LateralSpeed:         6,
		SlowMultiplier:       0.5,
		JumpImpulse:          7,
		GroundProbeDistance:  0.15,
		WallProbeDistance:    1.0,
		DashAcceleration:     20,
		DashDuration:         2,
		ForwardBlendRate:     5,
		MaxSpeed:             30,
		WallRunGravity:       2,
		OrientationBlendRate: 8,
		SteerDeadZone:        0.1,
	}
}

func (c Config) Validate() error {
	checks := []struct {
		name string
		ok   bool
		val  float64
		rule string
	}{
		{"forward_speed", nonNegative(c.ForwardSpeed), c.ForwardSpeed, ">= 0"},
		{"lateral_speed", nonNegative(c.LateralSpeed), c.LateralSpeed, ">= 0"},
		{"slow_multiplier", nonNegative(c.SlowMultiplier), c.SlowMultiplier, ">= 0"},
		{"jump_impulse", nonNegative(c.JumpImpulse), c.JumpImpulse, ">= 0"},
		{"ground_probe_distance", positive(c.GroundProbeDistance), c.GroundProbeDistance, "> 0"},
		{"wall_probe_distance", positive(c.WallProbeDistance), c.WallProbeDistance, "> 0"},
		{"dash_acceleration", nonNegative(c.DashAcceleration), c.DashAcceleration, ">= 0"},
		{"dash_duration", positive(c.DashDuration), c.DashDuration, "> 0"},
		{"forward_blend_rate", nonNegative(c.ForwardBlendRate), c.ForwardBlendRate, ">= 0"},
		{"max_speed", positive(c.MaxSpeed), c.MaxSpeed, "> 0"},
		{"wall_run_gravity", nonNegative(c.WallRunGravity), c.WallRunGravity, ">= 0"},
		{"orientation_blend_rate", nonNegative(c.OrientationBlendRate), c.OrientationBlendRate, ">= 0"},
		{"steer_dead_zone", nonNegative(c.SteerDeadZone) && c.SteerDeadZone < 1, c.SteerDeadZone, "in [0, 1)"},
		{"wall_run_min_speed", nonNegative(c.WallRunMinSpeed), c.WallRunMinSpeed, ">= 0"},
		{"jump_buffer", nonNegative(c.JumpBuffer), c.JumpBuffer, ">= 0"},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s must be %s, got %v", ErrInvalidConfig, check.name, check.rule, check.val)
		}
	}
	return nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
