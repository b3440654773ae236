package cue

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Tone is a short sine blip that glides from Freq to EndFreq.
type Tone struct {
	Freq     float64
	EndFreq  float64
	Duration time.Duration
}

var (
	JumpTone    = Tone{Freq: 520, EndFreq: 880, Duration: 90 * time.Millisecond}
	DashTone    = Tone{Freq: 160, EndFreq: 420, Duration: 220 * time.Millisecond}
	WallRunTone = Tone{Freq: 330, EndFreq: 330, Duration: 140 * time.Millisecond}
)

const fadeFraction = 0.25

type sweep struct {
	tone     Tone
	rate     beep.SampleRate
	phase    float64
	position int
	total    int
	fade     int
}

// NewStreamer renders t at rate, scaled by volume in [0, 1].
func NewStreamer(t Tone, rate beep.SampleRate, volume float64) beep.Streamer {
	total := rate.N(t.Duration)
	s := &sweep{
		tone:  t,
		rate:  rate,
		total: total,
		fade:  int(float64(total) * fadeFraction),
	}
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(math.Min(volume, 1))}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.total {
			return i, i > 0
		}
		progress := float64(s.position) / float64(s.total)
		freq := s.tone.Freq + (s.tone.EndFreq-s.tone.Freq)*progress
		val := math.Sin(2*math.Pi*s.phase) * s.gain()

		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

// gain ramps in and out over the first and last fade samples.
func (s *sweep) gain() float64 {
	if s.fade <= 0 {
		return 1
	}
	if s.position < s.fade {
		return float64(s.position) / float64(s.fade)
	}
	if left := s.total - s.position; left < s.fade {
		return float64(left) / float64(s.fade)
	}
	return 1
}

func (s *sweep) Err() error { return nil }
