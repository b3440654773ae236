package hud

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

const barWidth = 30

// Frame is what the view needs to draw one refresh.
type Frame struct {
	Tick        uint64
	Speed       float64
	State       string
	WallRunning bool
	WallSide    string
	Grounded    bool
	Position    mgl64.Vec3
}

// View renders the speed readout and locomotion status on a terminal screen.
type View struct {
	screen tcell.Screen
	gauge  *Gauge

	labelStyle tcell.Style
	valueStyle tcell.Style
	dashStyle  tcell.Style
	wallStyle  tcell.Style
	barStyle   tcell.Style
}

func NewView(screen tcell.Screen) *View {
	return &View{
		screen:     screen,
		gauge:      NewGauge(),
		labelStyle: tcell.StyleDefault.Foreground(tcell.ColorGray),
		valueStyle: tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
		dashStyle:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		wallStyle:  tcell.StyleDefault.Foreground(tcell.ColorAqua),
		barStyle:   tcell.StyleDefault.Foreground(tcell.ColorGreen),
	}
}

func (v *View) Gauge() *Gauge {
	return v.gauge
}

// Draw updates the gauge with f, advances its tween by dt and redraws.
func (v *View) Draw(f Frame, dt float64) {
	v.gauge.Update(f.Speed)
	v.gauge.Advance(dt)

	v.screen.Clear()
	v.drawText(0, 0, "SPEED ", v.labelStyle)
	v.drawText(6, 0, v.gauge.Text(), v.valueStyle)

	filled := int(math.Round((v.gauge.Scale() - MinScale) / (MaxScale - MinScale) * barWidth))
	for x := 0; x < barWidth; x++ {
		ch := '·'
		if x < filled {
			ch = '█'
		}
		v.screen.SetContent(x, 1, ch, nil, v.barStyle)
	}

	stateStyle := v.valueStyle
	if f.State == "dashing" {
		stateStyle = v.dashStyle
	}
	v.drawText(0, 2, "STATE ", v.labelStyle)
	v.drawText(6, 2, f.State, stateStyle)
	if f.WallRunning {
		v.drawText(16, 2, "WALL "+f.WallSide, v.wallStyle)
	} else if f.Grounded {
		v.drawText(16, 2, "GROUND", v.labelStyle)
	}

	pos := fmt.Sprintf("tick=%d pos=(%.1f, %.1f, %.1f)", f.Tick, f.Position.X(), f.Position.Y(), f.Position.Z())
	v.drawText(0, 3, pos, v.labelStyle)
	v.screen.Show()
}

func (v *View) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
