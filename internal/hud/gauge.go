package hud

import (
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// TweenSeconds is the length of one scale tween.
	TweenSeconds = 0.2
	MinScale     = 1.0
	MaxScale     = 1.5
	// SpeedPerScale is the speed that adds 1.0 to the scale before clamping.
	SpeedPerScale = 20.0
)

func FormatSpeed(speed float64) string {
	return strconv.FormatFloat(speed, 'f', 2, 64)
}

// TargetScale maps a travel speed to the readout scale.
func TargetScale(speed float64) float64 {
	return mgl64.Clamp(1+math.Abs(speed)/SpeedPerScale, MinScale, MaxScale)
}

// Gauge is the animated speed readout. Every Update kills the running tween
// and starts a new one from the current scale toward the new target.
type Gauge struct {
	text    string
	scale   float64
	from    float64
	to      float64
	elapsed float64
}

func NewGauge() *Gauge {
	return &Gauge{
		text:    FormatSpeed(0),
		scale:   MinScale,
		from:    MinScale,
		to:      MinScale,
		elapsed: TweenSeconds,
	}
}

func (g *Gauge) Update(speed float64) {
	g.text = FormatSpeed(speed)
	g.from = g.scale
	g.to = TargetScale(speed)
	g.elapsed = 0
}

// Advance moves the running tween forward by dt seconds.
func (g *Gauge) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	g.elapsed = math.Min(g.elapsed+dt, TweenSeconds)
	t := g.elapsed / TweenSeconds
	g.scale = g.from + (g.to-g.from)*easeInQuad(t)
}

func (g *Gauge) Text() string    { return g.text }
func (g *Gauge) Scale() float64  { return g.scale }
func (g *Gauge) Target() float64 { return g.to }
func (g *Gauge) Settled() bool   { return g.elapsed >= TweenSeconds }

func easeInQuad(t float64) float64 {
	return t * t
}
