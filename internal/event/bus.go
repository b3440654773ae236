package event

import (
	"log/slog"
	"sync"
)

type HandlerFunc func(raw any)

type subscription struct {
	id      uint64
	handler HandlerFunc
}

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine. A panicking handler is logged and skipped.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string][]subscription
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]subscription),
	}
}

// Subscribe registers handler for eventName and returns a function that
// removes it. The returned function may be called any number of times.
func (b *Bus) Subscribe(eventName string, handler HandlerFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers[eventName] = append(b.handlers[eventName], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(eventName, id) })
	}
}

func (b *Bus) unsubscribe(eventName string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[eventName]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		kept := make([]subscription, 0, len(subs)-1)
		kept = append(kept, subs[:i]...)
		kept = append(kept, subs[i+1:]...)
		if len(kept) == 0 {
			delete(b.handlers, eventName)
		} else {
			b.handlers[eventName] = kept
		}
		return
	}
}

func (b *Bus) Publish(eventName string, evt any) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[eventName]))
	copy(subs, b.handlers[eventName])
	b.mu.RUnlock()

	for _, s := range subs {
		deliver(eventName, s.handler, evt)
	}
}

func (b *Bus) SubscriberCount(eventName string) int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventName])
}

func deliver(eventName string, h HandlerFunc, evt any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Event handler panicked", "event", eventName, "panic", r)
		}
	}()
	h(evt)
}
