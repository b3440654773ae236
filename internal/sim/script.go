package sim

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/Versifine/glide/internal/input"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// ScriptEvent posts one input event at simulated time At. Axis is the steer
// value for steer_changed.
type ScriptEvent struct {
	At    float64 `yaml:"at"`
	Event string  `yaml:"event"`
	Axis  float64 `yaml:"axis"`

	kind input.Kind
}

// Script is a timed sequence of input events played against a session.
type Script struct {
	Name     string        `yaml:"name"`
	Duration float64       `yaml:"duration"`
	Events   []ScriptEvent `yaml:"events"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes and checks a script and orders its events by time.
func ParseScript(data []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse yaml script: %w", err)
	}
	if !(s.Duration > 0) || math.IsInf(s.Duration, 0) {
		return nil, fmt.Errorf("duration must be positive and finite, got %v", s.Duration)
	}
	for i := range s.Events {
		e := &s.Events[i]
		kind, err := input.ParseKind(e.Event)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if !(e.At >= 0 && e.At <= s.Duration) {
			return nil, fmt.Errorf("event %d: at=%v outside [0, %v]", i, e.At, s.Duration)
		}
		e.kind = kind
	}
	sort.SliceStable(s.Events, func(i, j int) bool {
		return s.Events[i].At < s.Events[j].At
	})
	return s, nil
}

func (e ScriptEvent) Input() input.Event {
	evt := input.Event{Kind: e.kind}
	if e.kind == input.KindSteerChanged {
		evt.Axis = mgl64.Vec2{e.Axis, 0}
	}
	return evt
}
