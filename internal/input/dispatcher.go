package input

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

const DefaultBufferSize = 64

var ErrAlreadyBound = errors.New("input dispatcher already has a handler")

// Dispatcher is the handoff between the input layer and the tick loop.
// Producers Post from any goroutine; the tick loop calls Drain before each
// tick, so handlers only ever run on the tick goroutine.
type Dispatcher struct {
	events  chan Event
	dropped atomic.Uint64

	mu      sync.Mutex
	handler Handler
	gen     uint64
}

func NewDispatcher(bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Dispatcher{events: make(chan Event, bufferSize)}
}

// Post queues evt without blocking. A full queue drops the event.
func (d *Dispatcher) Post(evt Event) bool {
	select {
	case d.events <- evt:
		return true
	default:
		n := d.dropped.Add(1)
		slog.Warn("Input event dropped", "event", evt.Kind.String(), "dropped_total", n)
		return false
	}
}

// Drain delivers every queued event to the bound handler and returns how
// many were delivered. Events queued while nothing is bound are discarded.
func (d *Dispatcher) Drain() int {
	d.mu.Lock()
	h := d.handler
	d.mu.Unlock()

	delivered := 0
	for {
		select {
		case evt := <-d.events:
			if h == nil {
				continue
			}
			Deliver(h, evt)
			delivered++
		default:
			return delivered
		}
	}
}

func (d *Dispatcher) Pending() int {
	return len(d.events)
}

func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Bind attaches h as the single consumer of queued events.
func (d *Dispatcher) Bind(h Handler) (*Binding, error) {
	if h == nil {
		return nil, errors.New("input handler is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handler != nil {
		return nil, ErrAlreadyBound
	}
	d.handler = h
	d.gen++
	return &Binding{d: d, gen: d.gen}, nil
}

// Binding is the handle returned by Bind.
type Binding struct {
	d    *Dispatcher
	gen  uint64
	once sync.Once
}

// Unbind detaches the handler. It is safe on a nil Binding and on repeated
// calls, and never detaches a handler bound after this one.
func (b *Binding) Unbind() {
	if b == nil || b.d == nil {
		return
	}
	b.once.Do(func() {
		b.d.mu.Lock()
		defer b.d.mu.Unlock()
		if b.d.gen == b.gen {
			b.d.handler = nil
		}
	})
}
