package cue

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Versifine/glide/internal/event"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Board mixes movement cues into one stream. It is itself the streamer
// handed to the speaker, so cues can be added while audio is playing.
type Board struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	rate   beep.SampleRate
	volume float64
	played map[string]int
}

func NewBoard(rate beep.SampleRate, volume float64) *Board {
	return &Board{
		mixer:  &beep.Mixer{},
		rate:   rate,
		volume: volume,
		played: make(map[string]int),
	}
}

// Attach plays cues for jumps, dash starts and wall-run entries published on
// bus. The returned function detaches every subscription.
func (b *Board) Attach(bus *event.Bus) func() {
	cancels := []func(){
		bus.Subscribe(event.EventJump, func(any) { b.Play("jump", JumpTone) }),
		bus.Subscribe(event.EventStateChanged, func(raw any) {
			evt, ok := raw.(*event.StateChangedEvent)
			if ok && evt.To == "dashing" {
				b.Play("dash", DashTone)
			}
		}),
		bus.Subscribe(event.EventWallRunStart, func(any) { b.Play("wallrun", WallRunTone) }),
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

func (b *Board) Play(name string, t Tone) {
	s := NewStreamer(t, b.rate, b.volume)
	b.mu.Lock()
	b.mixer.Add(s)
	b.played[name]++
	b.mu.Unlock()
	slog.Debug("Cue queued", "cue", name)
}

// Played reports how many times the named cue was queued.
func (b *Board) Played(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.played[name]
}

// Active is the number of cues still sounding.
func (b *Board) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mixer.Len()
}

func (b *Board) Clear() {
	b.mu.Lock()
	b.mixer.Clear()
	b.mu.Unlock()
}

// Stream fills samples from the active cues and pads with silence, so the
// board never ends while the speaker holds it.
func (b *Board) Stream(samples [][2]float64) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	if b.mixer.Len() > 0 {
		n, _ = b.mixer.Stream(samples)
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (b *Board) Err() error { return nil }

// Start opens the default audio device and plays the board on it.
func (b *Board) Start() error {
	if err := speaker.Init(b.rate, b.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(b)
	return nil
}

func (b *Board) Stop() {
	speaker.Clear()
	b.Clear()
}
